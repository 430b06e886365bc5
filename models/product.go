package models

import (
	"encoding/json"
	"math"
)

// Column order of a listing row in every source format
const (
	ColName = iota
	ColPrice
	ColDescription
	ColType
	ColOnSale
	ColDiscount
	ColImages
	ColumnCount
)

// RawRow is one listing row exactly as the source supplied it.
// Present is the number of cells the source row actually had; cells past
// Present are missing, which is different from an empty cell.
type RawRow struct {
	Cells   [ColumnCount]string `bson:"cells" json:"cells"`
	Present int                 `bson:"present" json:"present"`
}

// NewRawRow builds a RawRow from an ordered list of cell texts.
// Extra cells are ignored.
func NewRawRow(cells ...string) RawRow {
	var row RawRow
	for i, c := range cells {
		if i >= ColumnCount {
			break
		}
		row.Cells[i] = c
	}
	row.Present = len(cells)
	if row.Present > ColumnCount {
		row.Present = ColumnCount
	}
	return row
}

// Cell returns the text of column i and whether the source had that cell.
func (r RawRow) Cell(i int) (string, bool) {
	if i < 0 || i >= ColumnCount || i >= r.Present {
		return "", false
	}
	return r.Cells[i], true
}

// Product represents a listing row with its derived pricing and images
type Product struct {
	ID              int      `json:"id"` // position in source order
	Name            string   `json:"name"`
	Price           float64  `json:"price"`
	Description     string   `json:"description"`
	Type            string   `json:"type"`
	OnSale          bool     `json:"on_sale"`
	DiscountPercent int      `json:"discount_percent"`
	SalePrice       *float64 `json:"sale_price"`
	Images          []string `json:"image_paths"`
}

// CurrentPrice is the price a shopper pays today.
func (p Product) CurrentPrice() float64 {
	if p.OnSale && p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// MarshalJSON writes prices that are not finite numbers as null; JSON has no NaN.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	out := struct {
		plain
		Price     *float64 `json:"price"`
		SalePrice *float64 `json:"sale_price"`
	}{plain: plain(p)}
	out.Price = finite(p.Price)
	if p.SalePrice != nil {
		out.SalePrice = finite(*p.SalePrice)
	}
	return json.Marshal(out)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
