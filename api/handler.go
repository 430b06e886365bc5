package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/raushankrgupta/storefront-listings/config"
	"github.com/raushankrgupta/storefront-listings/listings"
	"github.com/raushankrgupta/storefront-listings/measure"
	"github.com/raushankrgupta/storefront-listings/models"
	"github.com/raushankrgupta/storefront-listings/sources/catalog"
	"github.com/raushankrgupta/storefront-listings/utils"
)

var pageName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ListingsAPI serves host pages, carousel cards and the listings JSON
type ListingsAPI struct {
	Pipeline *listings.Pipeline
	Pages    config.PageRegistry
	PagesDir string
	// MeasureBaseURL is the public site address thumbnails are measured on, optional
	MeasureBaseURL string
	// Store receives admin imports; nil disables the import endpoint
	Store catalog.Store
	// JWTSecret signs admin tokens
	JWTSecret string
	// AdminUser and AdminPasswordHash (bcrypt) guard the login route
	AdminUser         string
	AdminPasswordHash string
	// Mailer is told about each import, optional
	Mailer Mailer
}

// Mailer sends a notification email
type Mailer interface {
	Send(subject, textContent, htmlContent string) error
}

// ListingsResponse is the body of GET /api/listings
type ListingsResponse struct {
	Collection string           `json:"collection"`
	Count      int              `json:"count"`
	Products   []models.Product `json:"products"`
}

// PageHandler serves a host page with its product grid filled in
func (a *ListingsAPI) PageHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Page]")

	name := chi.URLParam(r, "page")
	if name == "" {
		name = "index"
	}
	name = strings.TrimSuffix(strings.ToLower(name), ".html")
	if !pageName.MatchString(name) {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Invalid page name: %q", name))
		http.NotFound(w, r)
		return
	}

	page := a.Pages.Lookup(name)
	body, err := os.ReadFile(filepath.Join(a.PagesDir, filepath.Base(page.File)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Page not found: %s", name))
			http.NotFound(w, r)
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to read page %s: %v", name, err))
		http.Error(w, "Failed to read page", http.StatusInternalServerError)
		return
	}

	opts := listings.RenderOptions{
		Collection: page.Collection,
		DPR:        devicePixelRatio(r),
	}
	// pages loaded by the measurer itself are rendered with the configured width
	if a.MeasureBaseURL != "" && !measure.IsMeasureRequest(r) {
		opts.PageURL = measure.MarkURL(strings.TrimSuffix(a.MeasureBaseURL, "/") + r.URL.Path)
	}

	out, err := a.Pipeline.RenderPage(r.Context(), body, opts)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Render failed for %s: %v", name, err))
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Rendered page %s", name))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Add("Vary", "Sec-CH-DPR, DPR")
	w.Header().Set("Accept-CH", "Sec-CH-DPR, DPR")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// CardHandler re-renders one card at a given image for the carousel controls
func (a *ListingsAPI) CardHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Carousel]")

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id < 0 {
		utils.AddToLogMessage(&logMessageBuilder, "Invalid id parameter")
		http.Error(w, "Please provide a numeric 'id' query parameter", http.StatusBadRequest)
		return
	}
	index := 0
	if v := r.URL.Query().Get("index"); v != "" {
		index, err = strconv.Atoi(v)
		if err != nil {
			utils.AddToLogMessage(&logMessageBuilder, "Invalid index parameter")
			http.Error(w, "The 'index' query parameter must be an integer", http.StatusBadRequest)
			return
		}
	}

	card, err := a.Pipeline.RenderCard(r.Context(), id, index)
	if err != nil {
		if errors.Is(err, listings.ErrUnknownCard) {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Unknown card %d", id))
			http.NotFound(w, r)
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Card render failed: %v", err))
		http.Error(w, "Failed to render card", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(card))
}

// ListingsHandler returns the listings of a collection as JSON
func (a *ListingsAPI) ListingsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer utils.FlushLogMessage(&logMessageBuilder)
	utils.AddToLogMessage(&logMessageBuilder, "[Listings API]")

	collection := listings.NormalizeCollection(r.URL.Query().Get("collection"))
	products, err := a.Pipeline.Products(r.Context(), collection)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, fmt.Sprintf("Failed to load listings: %v", err), http.StatusBadGateway)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Returned %d listings for %s", len(products), collection))
	utils.RespondJSON(w, http.StatusOK, ListingsResponse{
		Collection: collection,
		Count:      len(products),
		Products:   products,
	})
}

// devicePixelRatio reads the client hint headers, 0 when absent or invalid
func devicePixelRatio(r *http.Request) float64 {
	for _, h := range []string{"Sec-CH-DPR", "DPR"} {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" {
			if dpr, err := strconv.ParseFloat(v, 64); err == nil && dpr > 0 {
				return dpr
			}
		}
	}
	return 0
}
