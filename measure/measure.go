package measure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// ThumbSelector is the thumbnail box whose rendered width is measured
const ThumbSelector = ".cards .thumb"

// thumbWidthScript returns the first thumbnail box width in CSS pixels, 0 when absent
const thumbWidthScript = `(function () {
  var el = document.querySelector(".cards .thumb");
  if (!el) { return 0; }
  var r = el.getBoundingClientRect();
  return (r && r.width) || 0;
})()`

// Measurer reports the rendered width of the thumbnail box on a page
type Measurer interface {
	ThumbWidth(ctx context.Context, pageURL string) (float64, error)
}

// Chain tries each measurer in order and returns the first positive width
type Chain []Measurer

func (c Chain) ThumbWidth(ctx context.Context, pageURL string) (float64, error) {
	var errs []error
	for _, m := range c {
		w, err := m.ThumbWidth(ctx, pageURL)
		if err == nil && w > 0 {
			return w, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return 0, fmt.Errorf("no thumbnail found on %s", pageURL)
	}
	return 0, fmt.Errorf("all measurers failed for %s: %w", pageURL, errors.Join(errs...))
}

// MeasureParam marks page requests made by a measurer. Pages served for such
// a request must not start another measurement.
const MeasureParam = "thumb_measure"

// ErrPending is returned while a page's first measurement is still running
var ErrPending = errors.New("thumbnail measurement pending")

// MarkURL adds MeasureParam to a page URL
func MarkURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	q := u.Query()
	q.Set(MeasureParam, "1")
	u.RawQuery = q.Encode()
	return u.String()
}

// IsMeasureRequest reports whether r was sent by a measurer
func IsMeasureRequest(r *http.Request) bool {
	return r.URL.Query().Get(MeasureParam) != ""
}

type cacheEntry struct {
	width    float64
	err      error
	pending  bool
	failedAt time.Time
}

// Cached measures each page once in the background. Until a width is known
// callers get ErrPending; failures are remembered for FailureTTL.
type Cached struct {
	Next       Measurer
	Timeout    time.Duration
	FailureTTL time.Duration

	now     func() time.Time
	mu      sync.Mutex
	entries map[string]*cacheEntry
	wg      sync.WaitGroup
}

func NewCached(next Measurer) *Cached {
	return &Cached{
		Next:       next,
		Timeout:    2 * time.Minute,
		FailureTTL: 10 * time.Minute,
		now:        time.Now,
		entries:    make(map[string]*cacheEntry),
	}
}

// ThumbWidth never blocks on the browser. ctx only bounds the lookup; the
// measurement itself runs detached from the request.
func (c *Cached) ThumbWidth(ctx context.Context, pageURL string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]*cacheEntry)
	}
	if c.now == nil {
		c.now = time.Now
	}

	if e, ok := c.entries[pageURL]; ok {
		switch {
		case e.pending:
			return 0, ErrPending
		case e.err == nil:
			return e.width, nil
		case c.now().Sub(e.failedAt) < c.FailureTTL:
			return 0, e.err
		}
	}

	c.entries[pageURL] = &cacheEntry{pending: true}
	c.wg.Add(1)
	go c.measure(pageURL)
	return 0, ErrPending
}

func (c *Cached) measure(pageURL string) {
	defer c.wg.Done()

	ctx := context.Background()
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	w, err := c.Next.ThumbWidth(ctx, MarkURL(pageURL))
	if err == nil && w <= 0 {
		err = fmt.Errorf("no thumbnail width on %s", pageURL)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.entries[pageURL] = &cacheEntry{err: err, failedAt: c.now()}
		return
	}
	c.entries[pageURL] = &cacheEntry{width: w}
}

// Wait blocks until every started measurement has finished
func (c *Cached) Wait() {
	c.wg.Wait()
}
