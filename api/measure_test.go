package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/raushankrgupta/storefront-listings/measure"
	"github.com/stretchr/testify/require"
)

// loadingMeasurer stands in for a browser: it loads the page over HTTP
type loadingMeasurer struct {
	launches atomic.Int32
	mu       sync.Mutex
	urls     []string
}

func (m *loadingMeasurer) ThumbWidth(ctx context.Context, pageURL string) (float64, error) {
	m.launches.Add(1)
	m.mu.Lock()
	m.urls = append(m.urls, pageURL)
	m.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("page returned %d", resp.StatusCode)
	}
	return 280, nil
}

func TestPageRequestStartsOneMeasurement(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t, &stubSource{rows: sampleRows()})
	fake := &loadingMeasurer{}
	a.Pipeline.Measurer = fake
	srv := httptest.NewServer(NewRouter(a, t.TempDir()))
	t.Cleanup(srv.Close)
	a.MeasureBaseURL = srv.URL

	resp, err := http.Get(srv.URL + "/sale.html")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.EqualValues(t, 1, fake.launches.Load())
	require.Equal(t, []string{srv.URL + "/sale.html?thumb_measure=1"}, fake.urls)
}

func TestCachedMeasurementRunsOncePerPage(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t, &stubSource{rows: sampleRows()})
	fake := &loadingMeasurer{}
	cached := measure.NewCached(fake)
	a.Pipeline.Measurer = cached
	srv := httptest.NewServer(NewRouter(a, t.TempDir()))
	t.Cleanup(srv.Close)
	a.MeasureBaseURL = srv.URL

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cached.Wait()
	require.EqualValues(t, 1, fake.launches.Load())
	require.Equal(t, []string{srv.URL + "/?thumb_measure=1"}, fake.urls)

	w, err := cached.ThumbWidth(context.Background(), srv.URL+"/?thumb_measure=1")
	require.NoError(t, err)
	require.Equal(t, 280.0, w)

	for i := 0; i < 3; i++ {
		resp, err = http.Get(srv.URL + "/")
		require.NoError(t, err)
		resp.Body.Close()
	}
	cached.Wait()
	require.EqualValues(t, 1, fake.launches.Load())
}
