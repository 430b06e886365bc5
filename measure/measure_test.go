package measure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubMeasurer struct {
	mu    sync.Mutex
	width float64
	err   error
	calls int
	urls  []string
}

func (s *stubMeasurer) ThumbWidth(_ context.Context, pageURL string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.urls = append(s.urls, pageURL)
	return s.width, s.err
}

func TestChainReturnsFirstWidth(t *testing.T) {
	t.Parallel()

	failing := &stubMeasurer{err: errors.New("chrome not installed")}
	empty := &stubMeasurer{}
	ok := &stubMeasurer{width: 280}
	unused := &stubMeasurer{width: 999}

	w, err := Chain{failing, empty, ok, unused}.ThumbWidth(context.Background(), "http://shop.test/")
	require.NoError(t, err)
	require.Equal(t, 280.0, w)
	require.Equal(t, 1, failing.calls)
	require.Zero(t, unused.calls)
}

func TestChainJoinsErrors(t *testing.T) {
	t.Parallel()

	first := errors.New("chrome not installed")
	second := errors.New("chromedriver missing")

	_, err := Chain{&stubMeasurer{err: first}, &stubMeasurer{err: second}}.ThumbWidth(context.Background(), "http://shop.test/")
	require.ErrorIs(t, err, first)
	require.ErrorIs(t, err, second)

	_, err = Chain{&stubMeasurer{}}.ThumbWidth(context.Background(), "http://shop.test/")
	require.ErrorContains(t, err, "no thumbnail found")
}

func TestCachedMeasuresInBackground(t *testing.T) {
	t.Parallel()

	next := &stubMeasurer{width: 320}
	c := NewCached(next)

	_, err := c.ThumbWidth(context.Background(), "http://shop.test/")
	require.ErrorIs(t, err, ErrPending)
	c.Wait()

	for i := 0; i < 3; i++ {
		w, err := c.ThumbWidth(context.Background(), "http://shop.test/")
		require.NoError(t, err)
		require.Equal(t, 320.0, w)
	}
	require.Equal(t, 1, next.calls)
	require.Equal(t, []string{"http://shop.test/?thumb_measure=1"}, next.urls)

	_, err = c.ThumbWidth(context.Background(), "http://shop.test/sale")
	require.ErrorIs(t, err, ErrPending)
	c.Wait()
	require.Equal(t, 2, next.calls)
}

type blockingMeasurer struct {
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (b *blockingMeasurer) ThumbWidth(context.Context, string) (float64, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	<-b.release
	return 300, nil
}

func TestCachedStartsOneMeasurementPerPage(t *testing.T) {
	t.Parallel()

	next := &blockingMeasurer{release: make(chan struct{})}
	c := NewCached(next)

	for i := 0; i < 5; i++ {
		_, err := c.ThumbWidth(context.Background(), "http://shop.test/")
		require.ErrorIs(t, err, ErrPending)
	}
	close(next.release)
	c.Wait()

	require.Equal(t, 1, next.calls)
	w, err := c.ThumbWidth(context.Background(), "http://shop.test/")
	require.NoError(t, err)
	require.Equal(t, 300.0, w)
}

func TestCachedRemembersFailuresForTTL(t *testing.T) {
	t.Parallel()

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	next := &stubMeasurer{err: errors.New("chrome not installed")}
	c := NewCached(next)
	c.FailureTTL = time.Minute
	c.now = func() time.Time { return clock }

	_, err := c.ThumbWidth(context.Background(), "http://shop.test/")
	require.ErrorIs(t, err, ErrPending)
	c.Wait()

	for i := 0; i < 3; i++ {
		_, err = c.ThumbWidth(context.Background(), "http://shop.test/")
		require.ErrorContains(t, err, "chrome not installed")
	}
	require.Equal(t, 1, next.calls)

	next.mu.Lock()
	next.err, next.width = nil, 300
	next.mu.Unlock()
	clock = clock.Add(2 * time.Minute)

	_, err = c.ThumbWidth(context.Background(), "http://shop.test/")
	require.ErrorIs(t, err, ErrPending)
	c.Wait()

	w, err := c.ThumbWidth(context.Background(), "http://shop.test/")
	require.NoError(t, err)
	require.Equal(t, 300.0, w)
	require.Equal(t, 2, next.calls)
}

func TestCachedZeroWidthIsAFailure(t *testing.T) {
	t.Parallel()

	c := NewCached(&stubMeasurer{})
	_, err := c.ThumbWidth(context.Background(), "http://shop.test/")
	require.ErrorIs(t, err, ErrPending)
	c.Wait()

	_, err = c.ThumbWidth(context.Background(), "http://shop.test/")
	require.ErrorContains(t, err, "no thumbnail width")
}

func TestMarkURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "http://shop.test/sale?thumb_measure=1", MarkURL("http://shop.test/sale"))
	require.Equal(t, "http://shop.test/?page=2&thumb_measure=1", MarkURL("http://shop.test/?page=2"))

	req := httptest.NewRequest(http.MethodGet, MarkURL("http://shop.test/sale"), nil)
	require.True(t, IsMeasureRequest(req))
	require.False(t, IsMeasureRequest(httptest.NewRequest(http.MethodGet, "/sale", nil)))
}

func TestPortManager(t *testing.T) {
	t.Parallel()

	pm := NewPortManager(9500, 2)

	a, err := pm.Acquire()
	require.NoError(t, err)
	require.Equal(t, 9500, a)

	b, err := pm.Acquire()
	require.NoError(t, err)
	require.Equal(t, 9501, b)

	_, err = pm.Acquire()
	require.Error(t, err)
	require.Equal(t, 2, pm.Busy())

	pm.Release(a)
	pm.Release(12345)
	c, err := pm.Acquire()
	require.NoError(t, err)
	require.Equal(t, a, c)
}

func TestSeleniumHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSelenium("/nonexistent/chromedriver")
	_, err := s.ThumbWidth(ctx, "http://shop.test/")
	require.ErrorIs(t, err, context.Canceled)

	// the port is not held after a failed measurement
	require.Zero(t, s.Ports.Busy())
}
