package listings

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/storefront-listings/models"
	"github.com/raushankrgupta/storefront-listings/sources"
	"github.com/raushankrgupta/storefront-listings/utils"
	"go.uber.org/zap"
)

// GridSelector finds the container the cards are rendered into
const GridSelector = ".cards"

// ErrUnknownCard is returned when a carousel request names a card that is not listed
var ErrUnknownCard = errors.New("unknown card")

// RenderOptions carries the per-request inputs of a page render
type RenderOptions struct {
	// Collection overrides the collection the page declares when non-empty
	Collection string
	// DPR is the client's device pixel ratio, 0 when unknown
	DPR float64
	// PageURL is the public address of the page, used for thumbnail measurement
	PageURL string
}

type cardState struct {
	product models.Product
	lowRes  bool
}

// Pipeline loads listing rows and renders them into host pages
type Pipeline struct {
	Source    sources.Source
	SourceURI string
	Prober    Prober
	Measurer  Measurer
	// ThumbWidth is the thumbnail box width used when it cannot be measured
	ThumbWidth float64
	CardPath   string

	mu       sync.RWMutex
	snapshot map[int]*cardState
}

// NewPipeline creates a pipeline reading from uri through src
func NewPipeline(src sources.Source, uri string) *Pipeline {
	return &Pipeline{
		Source:     src,
		SourceURI:  uri,
		ThumbWidth: 350,
		CardPath:   DefaultCardPath,
		snapshot:   make(map[int]*cardState),
	}
}

// Load fetches and derives every listing row. A successful load replaces the
// in-memory snapshot used by carousel requests.
func (p *Pipeline) Load(ctx context.Context) ([]models.Product, error) {
	products, _, err := p.load(ctx)
	return products, err
}

// load also returns the snapshot it installed, so a render can record its
// marks there and not in a snapshot a later load replaced it with.
func (p *Pipeline) load(ctx context.Context) ([]models.Product, map[int]*cardState, error) {
	if p.Source == nil {
		return nil, nil, fmt.Errorf("no listing source configured")
	}
	rows, err := p.Source.FetchRows(ctx, p.SourceURI)
	if err != nil {
		return nil, nil, err
	}
	products := BuildProducts(rows)

	p.mu.Lock()
	next := make(map[int]*cardState, len(products))
	for _, prod := range products {
		st := &cardState{product: prod}
		// keep a mark from an earlier render while the first image is unchanged
		if old, ok := p.snapshot[prod.ID]; ok && old.product.Images[0] == prod.Images[0] {
			st.lowRes = old.lowRes
		}
		next[prod.ID] = st
	}
	p.snapshot = next
	p.mu.Unlock()

	return products, next, nil
}

// Products returns the listing rows of a collection
func (p *Pipeline) Products(ctx context.Context, collection string) ([]models.Product, error) {
	products, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(products, collection), nil
}

// RenderPage fills the .cards grid of a host page with the page's collection.
// A page without a grid is returned as is. When the listings cannot be loaded
// the failure is logged and the page is returned with its grid untouched.
func (p *Pipeline) RenderPage(ctx context.Context, page []byte, opts RenderOptions) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse host page: %w", err)
	}

	grid := doc.Find(GridSelector).First()
	if grid.Length() == 0 {
		return page, nil
	}

	collection := NormalizeCollection(opts.Collection)
	if opts.Collection == "" {
		collection = ResolveCollection(doc)
	}

	products, snapshot, err := p.load(ctx)
	if err != nil {
		utils.Logger.Error("Failed to load listings", zap.String("source", p.SourceURI), zap.Error(err))
		return page, nil
	}
	filtered := Filter(products, collection)

	lowRes := detectLowRes(ctx, p.Prober, filtered, p.displayWidth(ctx, opts.PageURL), opts.DPR)
	p.rememberLowRes(snapshot, filtered, lowRes)

	markup, err := RenderCards(filtered, lowRes, p.CardPath)
	if err != nil {
		return nil, err
	}

	grid.SetHtml(markup)
	// carousel buttons inherit these, so one binding on the grid serves every card
	grid.SetAttr("hx-target", "closest .product")
	grid.SetAttr("hx-swap", "outerHTML")

	out, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("serialize page: %w", err)
	}
	return []byte(out), nil
}

// RenderCard renders card id at image index for the carousel. The last
// loaded snapshot is used; listings are loaded first if there is none.
func (p *Pipeline) RenderCard(ctx context.Context, id, index int) (string, error) {
	st, ok := p.card(id)
	if !ok {
		if _, err := p.Load(ctx); err != nil {
			return "", err
		}
		if st, ok = p.card(id); !ok {
			return "", ErrUnknownCard
		}
	}
	return RenderCard(st.product, index, st.lowRes, p.CardPath)
}

func (p *Pipeline) card(id int) (cardState, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	st, ok := p.snapshot[id]
	if !ok {
		return cardState{}, false
	}
	return *st, true
}

func (p *Pipeline) rememberLowRes(snapshot map[int]*cardState, rendered []models.Product, marked map[int]bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, prod := range rendered {
		if st, ok := snapshot[prod.ID]; ok {
			st.lowRes = marked[prod.ID]
		}
	}
}

// displayWidth measures the thumbnail box when a measurer is configured and
// falls back to ThumbWidth when measuring fails or reports nothing.
func (p *Pipeline) displayWidth(ctx context.Context, pageURL string) float64 {
	fallback := p.ThumbWidth
	if fallback <= 0 {
		fallback = 350
	}
	if p.Measurer == nil || pageURL == "" {
		return fallback
	}
	w, err := p.Measurer.ThumbWidth(ctx, pageURL)
	if err != nil || w <= 0 {
		if err != nil {
			utils.Logger.Debug("thumbnail measurement skipped", zap.String("page", pageURL), zap.Error(err))
		}
		return fallback
	}
	return w
}
