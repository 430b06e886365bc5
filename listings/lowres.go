package listings

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/raushankrgupta/storefront-listings/models"
	"github.com/raushankrgupta/storefront-listings/utils"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

// maxConcurrentProbes limits how many thumbnails are inspected at once
const maxConcurrentProbes = 5

// Prober reports the intrinsic pixel width of an image
type Prober interface {
	IntrinsicWidth(ctx context.Context, src string) (int, error)
}

// Measurer reports the rendered width of the thumbnail box on a page
type Measurer interface {
	ThumbWidth(ctx context.Context, pageURL string) (float64, error)
}

// ClampDPR limits the device pixel ratio multiplier to [1, 2]
func ClampDPR(dpr float64) float64 {
	if math.IsNaN(dpr) || dpr < 1 {
		return 1
	}
	if dpr > 2 {
		return 2
	}
	return dpr
}

// LowResThreshold is the smallest intrinsic width that still looks sharp in
// a box displayWidth CSS pixels wide at the given pixel ratio.
func LowResThreshold(displayWidth, dpr float64) int {
	return int(math.Floor(displayWidth*ClampDPR(dpr) + 0.5))
}

// IsLowRes reports whether an image of intrinsic width should be marked.
// An unknown (zero) width is never marked.
func IsLowRes(intrinsicWidth int, displayWidth, dpr float64) bool {
	return intrinsicWidth > 0 && intrinsicWidth < LowResThreshold(displayWidth, dpr)
}

// ImageProber decodes image headers from the public asset directory or, when
// BaseURL is set or the source is absolute, over HTTP.
type ImageProber struct {
	Root    string
	BaseURL string
	Client  *http.Client
}

func NewImageProber(root, baseURL string) *ImageProber {
	return &ImageProber{Root: root, BaseURL: baseURL, Client: &http.Client{}}
}

func (p *ImageProber) IntrinsicWidth(ctx context.Context, src string) (int, error) {
	rc, err := p.open(ctx, src)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	cfg, _, err := image.DecodeConfig(rc)
	if err != nil {
		return 0, fmt.Errorf("decode image %s: %w", src, err)
	}
	return cfg.Width, nil
}

func (p *ImageProber) open(ctx context.Context, src string) (io.ReadCloser, error) {
	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return p.get(ctx, src)
	}
	if p.BaseURL != "" {
		return p.get(ctx, strings.TrimSuffix(p.BaseURL, "/")+"/"+strings.TrimPrefix(src, "/"))
	}

	clean := filepath.Clean("/" + filepath.FromSlash(src))
	return os.Open(filepath.Join(p.Root, clean))
}

func (p *ImageProber) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	return resp.Body, nil
}

// detectLowRes probes each distinct first image once and returns the product
// IDs whose thumbnails should be marked. Failed probes are skipped.
func detectLowRes(ctx context.Context, prober Prober, products []models.Product, displayWidth, dpr float64) map[int]bool {
	marked := make(map[int]bool)
	if prober == nil || len(products) == 0 {
		return marked
	}

	widths := make(map[string]int)
	var mu sync.Mutex
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, maxConcurrentProbes)

	seen := make(map[string]bool)
	for _, p := range products {
		src := p.Images[0]
		if seen[src] {
			continue
		}
		seen[src] = true

		wg.Add(1)
		go func(src string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			w, err := prober.IntrinsicWidth(ctx, src)
			if err != nil {
				utils.Logger.Debug("thumbnail probe skipped", zap.String("src", src), zap.Error(err))
				return
			}

			mu.Lock()
			widths[src] = w
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	for _, p := range products {
		if IsLowRes(widths[p.Images[0]], displayWidth, dpr) {
			marked[p.ID] = true
		}
	}
	return marked
}
