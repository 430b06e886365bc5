package base

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raushankrgupta/storefront-listings/models"
	"github.com/stretchr/testify/require"
)

func readRows(t *testing.T, name string) []models.RawRow {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()

	rows, err := DecodeRows(f, FormatFor(name, ""))
	require.NoError(t, err)
	return rows
}

func TestParseListingsTable(t *testing.T) {
	t.Parallel()

	rows := readRows(t, "listings.html")
	require.Len(t, rows, 3)
	require.Equal(t, models.NewRawRow("Rad Shoes", "40", "Comfy", "shoes", "true", "20", ""), rows[0])
	require.Equal(t, models.NewRawRow("Cap", "15", "Shade", "hats", "yes", "30", "custom/a.png, b.png"), rows[1])
	require.Equal(t, models.NewRawRow("Beanie", "22.5"), rows[2])
}

func TestParseListingsTableWithoutTable(t *testing.T) {
	t.Parallel()

	rows, err := ParseListingsTable(strings.NewReader(`<table><tbody><tr><td>x</td></tr></tbody></table>`))
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDecodeFormatsAgree(t *testing.T) {
	t.Parallel()

	html := readRows(t, "listings.html")
	jsonRows := readRows(t, "listings.json")
	yamlRows := readRows(t, "listings.yaml")

	require.Len(t, jsonRows, len(html))
	require.Len(t, yamlRows, len(html))

	for i := range html {
		for col := 0; col < models.ColumnCount; col++ {
			want, wantOK := html[i].Cell(col)
			got, gotOK := jsonRows[i].Cell(col)
			require.Equal(t, wantOK, gotOK, "json row %d col %d", i, col)
			require.Equal(t, strings.TrimSpace(want), strings.TrimSpace(got), "json row %d col %d", i, col)

			got, gotOK = yamlRows[i].Cell(col)
			require.Equal(t, wantOK, gotOK, "yaml row %d col %d", i, col)
			if col != models.ColImages {
				require.Equal(t, strings.TrimSpace(want), strings.TrimSpace(got), "yaml row %d col %d", i, col)
			}
		}
	}
	// list form of images joins with commas
	require.Equal(t, "custom/a.png, b.png", yamlRows[1].Cells[models.ColImages])
}

func TestDecodeRowsRejectsBadDocuments(t *testing.T) {
	t.Parallel()

	_, err := DecodeRows(strings.NewReader(`{"products": []}`), FormatJSON)
	require.Error(t, err)

	_, err = DecodeRows(strings.NewReader(`"just text"`), FormatJSON)
	require.Error(t, err)

	_, err = DecodeRows(strings.NewReader(`[42]`), FormatJSON)
	require.Error(t, err)

	_, err = DecodeRows(strings.NewReader(`{`), FormatJSON)
	require.Error(t, err)

	rows, err := DecodeRows(strings.NewReader(``), FormatYAML)
	require.NoError(t, err)
	require.Empty(t, rows)

	rows, err = DecodeRows(strings.NewReader(`listings: []`), FormatYAML)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestFormatFor(t *testing.T) {
	t.Parallel()

	require.Equal(t, FormatHTML, FormatFor("listings.html", ""))
	require.Equal(t, FormatHTML, FormatFor("listings", ""))
	require.Equal(t, FormatJSON, FormatFor("data/listings.JSON", ""))
	require.Equal(t, FormatYAML, FormatFor("listings.yml", ""))
	require.Equal(t, FormatYAML, FormatFor("https://cdn.test/listings.yaml?v=3", ""))
	require.Equal(t, FormatJSON, FormatFor("listings", "application/json; charset=utf-8"))
	require.Equal(t, FormatJSON, FormatFor("listings.html", "application/vnd.shop+json"))
	require.Equal(t, FormatYAML, FormatFor("listings", "application/x-yaml"))
	require.Equal(t, FormatHTML, FormatFor("listings.json", "text/html"))
	require.Equal(t, FormatJSON, FormatFor("listings.json", "application/octet-stream"))
}
