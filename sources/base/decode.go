package base

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/raushankrgupta/storefront-listings/models"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a listing document
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the decoder for a document from its name and, when given,
// its content type. Unknown inputs are treated as HTML, the original format.
func FormatFor(name, contentType string) Format {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			switch {
			case mt == "application/json" || strings.HasSuffix(mt, "+json"):
				return FormatJSON
			case mt == "application/yaml" || mt == "application/x-yaml" || mt == "text/yaml":
				return FormatYAML
			case mt == "text/html":
				return FormatHTML
			}
		}
	}

	// strip any query string before looking at the extension
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatHTML
	}
}

// DecodeRows reads listing rows from r in the given format
func DecodeRows(r io.Reader, format Format) ([]models.RawRow, error) {
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.UseNumber()
		var doc interface{}
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode listings json: %w", err)
		}
		return rowsFromValue(doc)
	case FormatYAML:
		var doc interface{}
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("decode listings yaml: %w", err)
		}
		return rowsFromValue(doc)
	default:
		return ParseListingsTable(r)
	}
}

// field name aliases accepted in structured records, mapped to their column
var recordKeys = map[string]int{
	"name":             models.ColName,
	"price":            models.ColPrice,
	"description":      models.ColDescription,
	"desc":             models.ColDescription,
	"type":             models.ColType,
	"on_sale":          models.ColOnSale,
	"onsale":           models.ColOnSale,
	"sale":             models.ColOnSale,
	"discount":         models.ColDiscount,
	"discount_offered": models.ColDiscount,
	"discountoffered":  models.ColDiscount,
	"images":           models.ColImages,
}

func rowsFromValue(doc interface{}) ([]models.RawRow, error) {
	// accept either a bare list or {"listings": [...]}
	if m, ok := doc.(map[string]interface{}); ok {
		inner, found := m["listings"]
		if !found {
			return nil, fmt.Errorf("listings document has no \"listings\" key")
		}
		doc = inner
	}
	if doc == nil {
		return nil, nil
	}

	items, ok := doc.([]interface{})
	if !ok {
		return nil, fmt.Errorf("listings document must be a list, got %T", doc)
	}

	rows := make([]models.RawRow, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case []interface{}:
			cells := make([]string, 0, len(v))
			for _, c := range v {
				cells = append(cells, scalarText(c))
			}
			rows = append(rows, models.NewRawRow(cells...))
		case map[string]interface{}:
			rows = append(rows, rowFromRecord(v))
		default:
			return nil, fmt.Errorf("listing %d: unsupported entry type %T", i, item)
		}
	}
	return rows, nil
}

func rowFromRecord(rec map[string]interface{}) models.RawRow {
	var row models.RawRow

	// deterministic order so duplicate aliases resolve the same way every time
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		col, ok := recordKeys[strings.ToLower(strings.TrimSpace(k))]
		if !ok || rec[k] == nil {
			continue
		}
		row.Cells[col] = scalarText(rec[k])
		if col+1 > row.Present {
			row.Present = col + 1
		}
	}
	return row
}

// scalarText renders a decoded JSON/YAML value the way a table cell would show it
func scalarText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []interface{}:
		// image lists may be given as arrays; the table form is comma separated
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, scalarText(p))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}
