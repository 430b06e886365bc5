package listings

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"github.com/raushankrgupta/storefront-listings/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var cardTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// DefaultCardPath is the route that re-renders a single card for the carousel
const DefaultCardPath = "/listings/card"

// cardView is the template data for one card
type cardView struct {
	ID          int
	Name        string
	Description string
	OnSale      bool
	Discount    int
	Was         string
	Now         string
	Src         string
	Index       int
	Count       int
	Label       string
	Multi       bool
	PrevURL     string
	NextURL     string
	LowRes      bool
	Images      []string
}

func newCardView(p models.Product, index int, lowRes bool, cardPath string) cardView {
	count := len(p.Images)
	index = Step(index, 0, count)

	v := cardView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OnSale:      p.OnSale,
		Discount:    p.DiscountPercent,
		Now:         FormatUSD(p.CurrentPrice()),
		Index:       index,
		Count:       count,
		Label:       IndexLabel(index, count),
		Multi:       count > 1,
		LowRes:      lowRes,
		Images:      p.Images,
	}
	if count > 0 {
		v.Src = p.Images[index]
	}
	if p.OnSale {
		v.Was = FormatUSD(p.Price)
	}
	if v.Multi {
		v.PrevURL = CardURL(cardPath, p.ID, Step(index, -1, count))
		v.NextURL = CardURL(cardPath, p.ID, Step(index, 1, count))
	}
	return v
}

// CardURL is the carousel request for card id showing image index
func CardURL(cardPath string, id, index int) string {
	q := url.Values{}
	q.Set("id", strconv.Itoa(id))
	q.Set("index", strconv.Itoa(index))
	return cardPath + "?" + q.Encode()
}

// RenderCards renders the markup for a list of cards at their first image.
// lowRes holds the product IDs whose thumbnail box gets the lowres mark.
func RenderCards(products []models.Product, lowRes map[int]bool, cardPath string) (string, error) {
	views := make([]cardView, 0, len(products))
	for _, p := range products {
		views = append(views, newCardView(p, 0, lowRes[p.ID], cardPath))
	}
	var buf bytes.Buffer
	if err := cardTemplates.ExecuteTemplate(&buf, "cards", views); err != nil {
		return "", fmt.Errorf("render cards: %w", err)
	}
	return buf.String(), nil
}

// RenderCard renders one card showing the image at index (wrapped into range)
func RenderCard(p models.Product, index int, lowRes bool, cardPath string) (string, error) {
	var buf bytes.Buffer
	if err := cardTemplates.ExecuteTemplate(&buf, "card", newCardView(p, index, lowRes, cardPath)); err != nil {
		return "", fmt.Errorf("render card: %w", err)
	}
	return buf.String(), nil
}
