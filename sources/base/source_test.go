package base

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchRowsHTTP(t *testing.T) {
	t.Parallel()

	var (
		mu                   sync.Mutex
		cacheControl, pragma string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		cacheControl = r.Header.Get("Cache-Control")
		pragma = r.Header.Get("Pragma")
		mu.Unlock()
		switch r.URL.Path {
		case "/listings":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[["Cap","15"]]`))
		case "/page.html":
			_, _ = w.Write([]byte(`<table id="listings"><tbody><tr><td>Cap</td><td>15</td></tr></tbody></table>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	b := NewBaseSource()

	rows, err := b.FetchRowsHTTP(context.Background(), srv.URL+"/listings")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Cap", rows[0].Cells[0])
	mu.Lock()
	require.Equal(t, "no-store", cacheControl)
	require.Equal(t, "no-cache", pragma)
	mu.Unlock()

	rows, err = b.FetchRowsHTTP(context.Background(), srv.URL+"/page.html")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 2, rows[0].Present)

	_, err = b.FetchRowsHTTP(context.Background(), srv.URL+"/missing.html")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}

func TestFetchHTTPHonoursContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := NewBaseSource().FetchHTTP(ctx, srv.URL)
	require.ErrorIs(t, err, context.Canceled)
}
