package listings

import (
	"strings"

	"github.com/raushankrgupta/storefront-listings/models"
)

// RowToProduct derives a product from one raw listing row. Bad cells are
// coerced rather than rejected so one broken row never hides the others.
func RowToProduct(id int, row models.RawRow) models.Product {
	name, _ := row.Cell(models.ColName)
	priceText, pricePresent := row.Cell(models.ColPrice)
	desc, _ := row.Cell(models.ColDescription)
	typ, _ := row.Cell(models.ColType)
	saleText, _ := row.Cell(models.ColOnSale)
	offText, offPresent := row.Cell(models.ColDiscount)
	imagesText, _ := row.Cell(models.ColImages)

	p := models.Product{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Price:       ParseNumber(priceText, pricePresent),
		Description: strings.TrimSpace(desc),
		Type:        strings.ToLower(strings.TrimSpace(typ)),
		OnSale:      ParseBool(saleText),
	}

	if p.OnSale {
		p.DiscountPercent = ClampDiscount(offText, offPresent)
		sale := SalePrice(p.Price, p.DiscountPercent)
		p.SalePrice = &sale
	}

	p.Images = ResolveImages(p.Name, imagesText)
	return p
}

// BuildProducts derives every row in source order
func BuildProducts(rows []models.RawRow) []models.Product {
	products := make([]models.Product, 0, len(rows))
	for i, row := range rows {
		products = append(products, RowToProduct(i, row))
	}
	return products
}
