package base

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/storefront-listings/models"
)

// ListingsTableSelector locates the product rows inside a listings fragment
const ListingsTableSelector = "#listings tbody tr"

// ParseListingsTable parses an HTML fragment holding the #listings table.
// A fragment without the table yields no rows, not an error.
func ParseListingsTable(r io.Reader) ([]models.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listings html: %w", err)
	}
	return RowsFromDocument(doc), nil
}

// RowsFromDocument extracts the ordered, trimmed cell texts of every table row
func RowsFromDocument(doc *goquery.Document) []models.RawRow {
	var rows []models.RawRow
	doc.Find(ListingsTableSelector).Each(func(i int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(j int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		rows = append(rows, models.NewRawRow(cells...))
	})
	return rows
}
