package listings

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/storefront-listings/models"
)

const (
	CollectionAll  = "all"
	CollectionSale = "sale"
)

// CollectionSelector finds the element declaring the page's collection
const CollectionSelector = "main[data-collection]"

// NormalizeCollection lower-cases a collection key, defaulting to "all"
func NormalizeCollection(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	if c == "" {
		return CollectionAll
	}
	return c
}

// ResolveCollection reads the collection a host page declares on its main element
func ResolveCollection(doc *goquery.Document) string {
	v, _ := doc.Find(CollectionSelector).First().Attr("data-collection")
	return NormalizeCollection(v)
}

// ShouldInclude reports whether a product belongs to the collection
func ShouldInclude(p models.Product, collection string) bool {
	switch collection {
	case CollectionAll:
		return true
	case CollectionSale:
		return p.OnSale
	default:
		return strings.EqualFold(p.Type, collection)
	}
}

// Filter keeps the products of a collection, preserving order
func Filter(products []models.Product, collection string) []models.Product {
	collection = NormalizeCollection(collection)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if ShouldInclude(p, collection) {
			out = append(out, p)
		}
	}
	return out
}
