package measure

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
)

// ChromeDP measures thumbnails in headless Chrome driven over the DevTools protocol
type ChromeDP struct {
	Timeout     time.Duration
	ViewportW   int64
	ViewportH   int64
	ExecOptions []chromedp.ExecAllocatorOption
}

func NewChromeDP() *ChromeDP {
	return &ChromeDP{
		Timeout:   time.Minute,
		ViewportW: 1280,
		ViewportH: 800,
	}
}

func (c *ChromeDP) ThumbWidth(ctx context.Context, pageURL string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	// Set up browser options
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
	)
	opts = append(opts, c.ExecOptions...)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	var width float64
	err := chromedp.Run(taskCtx,
		emulation.SetDeviceMetricsOverride(c.ViewportW, c.ViewportH, 1, false),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(thumbWidthScript, &width),
	)
	if err != nil {
		return 0, fmt.Errorf("chromedp measure error: %w", err)
	}
	return width, nil
}
