package fetch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/require"
)

func brotliBytes(t *testing.T, contents []byte) []byte {
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write(contents)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newTestClient(t *testing.T, opts Options) *Client {
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func TestGetPageCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.NotEmpty(t, r.Header.Get("user-agent"))
		w.Header().Set("content-type", "text/html")
		w.Write([]byte(`<html><head><title>Slope</title></head></html>`))
	}))
	defer srv.Close()

	c := newTestClient(t, Options{})
	ctx := context.Background()

	page, err := c.GetPage(ctx, srv.URL+"/game?b=2&a=1#top")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, page.Status)
	require.Contains(t, page.String(), "Slope")

	doc, err := page.Document()
	require.NoError(t, err)
	require.Equal(t, "Slope", doc.Find("title").Text())

	_, err = c.GetPage(ctx, srv.URL+"/game?a=1&b=2")
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load(), "equivalent URLs should be served from the cache")
}

func TestGetPageStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := newTestClient(t, Options{})
	_, err := c.GetPage(context.Background(), srv.URL+"/missing")
	var statusErr StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusNotFound, statusErr.Status)
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.Header().Set("content-encoding", "br")
		w.Write(brotliBytes(t, []byte(`[{"id": 1, "name": "Slope"}]`)))
	}))
	defer srv.Close()

	c := newTestClient(t, Options{})
	var out []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
	require.Len(t, out, 1)
	require.Equal(t, "Slope", out[0].Name)
}

func TestDownload(t *testing.T) {
	payload := strings.Repeat("unity build data ", 1024)
	mux := http.NewServeMux()
	mux.HandleFunc("/plain.js", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	})
	mux.HandleFunc("/compressed.wasm", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-encoding", "br")
		w.Write(brotliBytes(t, []byte(payload)))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	c := newTestClient(t, Options{Progress: io.Discard})
	ctx := context.Background()

	dest := filepath.Join(dir, "Build", "plain.js")
	n, err := c.Download(ctx, srv.URL+"/plain.js", dest)
	require.NoError(t, err)
	require.Equal(t, int64(len(payload)), n)
	contents, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, payload, string(contents))

	dest = filepath.Join(dir, "Build", "compressed.wasm")
	_, err = c.Download(ctx, srv.URL+"/compressed.wasm", dest)
	require.NoError(t, err)
	contents, err = os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, payload, string(contents))

	dest = filepath.Join(dir, "missing.js")
	_, err = c.Download(ctx, srv.URL+"/missing.js", dest)
	require.Error(t, err)
	require.NoFileExists(t, dest)
}

func TestDownloadAll(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			prev := maxInFlight.Load()
			if current <= prev || maxInFlight.CompareAndSwap(prev, current) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		if strings.HasSuffix(r.URL.Path, "broken.js") {
			http.Error(w, "gone", http.StatusGone)
			return
		}
		w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	dir := t.TempDir()
	var jobs []Job
	for _, name := range []string{"a.js", "b.js", "broken.js", "c.js", "d.js", "e.js"} {
		jobs = append(jobs, Job{URL: srv.URL + "/" + name, Dest: filepath.Join(dir, name)})
	}

	c := newTestClient(t, Options{})
	results := c.DownloadAll(context.Background(), jobs, 2)
	require.Len(t, results, len(jobs))
	require.Equal(t, 5, Succeeded(results))
	require.Error(t, results[2].Err)
	require.Error(t, Failures(results))
	require.LessOrEqual(t, maxInFlight.Load(), int32(2))

	contents, err := os.ReadFile(filepath.Join(dir, "e.js"))
	require.NoError(t, err)
	require.Equal(t, "/e.js", string(contents))
}

func TestRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := newTestClient(t, Options{RequestsPerSecond: 20})
	start := time.Now()
	for i := 0; i < 25; i++ {
		var out string
		err := c.GetJSON(context.Background(), srv.URL, &out)
		require.Error(t, err, "body is not json")
	}
	require.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
}
