package api

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/raushankrgupta/storefront-listings/models"
	"github.com/raushankrgupta/storefront-listings/sources/base"
	"github.com/raushankrgupta/storefront-listings/utils"
)

// maxImportBytes bounds the size of an uploaded listings fragment
const maxImportBytes = 5 << 20

// tablePolicy keeps only the table structure of an uploaded fragment; other
// markup is dropped and its text kept, so cell texts are unchanged.
var tablePolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("table", "thead", "tbody", "tfoot", "tr", "td", "th")
	p.AllowAttrs("id").OnElements("table")
	return p
}()

// ImportResponse is the body returned after an import
type ImportResponse struct {
	BatchID  string `json:"batch_id"`
	Imported int    `json:"imported"`
	By       string `json:"by"`
}

// ImportHandler replaces the stored listings with the rows of an uploaded HTML fragment
func (a *ListingsAPI) ImportHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Import API]")

	if a.Store == nil {
		utils.RespondError(w, &logMessageBuilder, "Listing store is not configured", http.StatusServiceUnavailable)
		return
	}

	admin, err := GetAdminFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Error reading body: %v", err), http.StatusBadRequest)
		return
	}

	clean := tablePolicy.SanitizeReader(bytes.NewReader(body))
	rows, err := base.ParseListingsTable(clean)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Invalid listings fragment: %v", err), http.StatusBadRequest)
		return
	}
	if len(rows) == 0 {
		utils.RespondError(w, &logMessageBuilder, "Fragment has no #listings rows", http.StatusBadRequest)
		return
	}

	records := make([]models.ListingRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.RecordFromRow(row))
	}

	batchID := uuid.NewString()
	if err := a.Store.Replace(r.Context(), batchID, records); err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to store listings: %v", err), http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Imported %d listings as batch %s by %s", len(records), batchID, admin))
	resp := ImportResponse{
		BatchID:  batchID,
		Imported: len(records),
		By:       admin,
	}
	a.notifyImport(&logMessageBuilder, resp)
	utils.RespondJSON(w, http.StatusCreated, resp)
}

// notifyImport emails the import summary; a failed email does not fail the import
func (a *ListingsAPI) notifyImport(logMessageBuilder *strings.Builder, resp ImportResponse) {
	if a.Mailer == nil {
		return
	}
	subject := fmt.Sprintf("Listings replaced: %d rows", resp.Imported)
	text := fmt.Sprintf("%s imported %d listings (batch %s).", resp.By, resp.Imported, resp.BatchID)
	html := fmt.Sprintf("<p><strong>%s</strong> imported %d listings.</p><p>Batch <code>%s</code></p>",
		template.HTMLEscapeString(resp.By), resp.Imported, resp.BatchID)
	if err := a.Mailer.Send(subject, text, html); err != nil {
		utils.AddToLogMessage(logMessageBuilder, fmt.Sprintf("Failed to send import email: %v", err))
		return
	}
	utils.AddToLogMessage(logMessageBuilder, "Sent import email")
}
