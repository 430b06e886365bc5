package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingRecord is a listing row as stored in the mongo listings collection.
// Fields stay as text so every source goes through the same coercion rules
// as the HTML table.
type ListingRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Name        *string            `bson:"name,omitempty" json:"name,omitempty"`
	Price       *string            `bson:"price,omitempty" json:"price,omitempty"`
	Description *string            `bson:"description,omitempty" json:"description,omitempty"`
	Type        *string            `bson:"type,omitempty" json:"type,omitempty"`
	OnSale      *string            `bson:"on_sale,omitempty" json:"on_sale,omitempty"`
	Discount    *string            `bson:"discount,omitempty" json:"discount,omitempty"`
	Images      *string            `bson:"images,omitempty" json:"images,omitempty"`
	Position    int                `bson:"position" json:"-"`
	BatchID     string             `bson:"batch_id,omitempty" json:"-"`
	CreatedAt   time.Time          `bson:"created_at,omitempty" json:"-"`
}

// Row converts the record to a RawRow. Present extends to the last non-nil
// field; trailing nil fields are missing cells, like a short table row.
func (rec ListingRecord) Row() RawRow {
	fields := []*string{rec.Name, rec.Price, rec.Description, rec.Type, rec.OnSale, rec.Discount, rec.Images}
	var row RawRow
	for i, f := range fields {
		if f != nil {
			row.Cells[i] = *f
			row.Present = i + 1
		}
	}
	return row
}

// RecordFromRow is the inverse of Row, used when importing table rows.
func RecordFromRow(row RawRow) ListingRecord {
	var rec ListingRecord
	targets := []**string{&rec.Name, &rec.Price, &rec.Description, &rec.Type, &rec.OnSale, &rec.Discount, &rec.Images}
	for i, t := range targets {
		if v, ok := row.Cell(i); ok {
			v := v
			*t = &v
		}
	}
	return rec
}
