package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"gamecatalog/lib/catalog"
	"gamecatalog/lib/fetch"
)

// Serve starts a server answering each path in routes with its body, every
// other path is a 404. It is closed when the test ends.
func Serve(t testing.TB, routes map[string]string) *httptest.Server {
	mux := http.NewServeMux()
	for path, body := range routes {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// WriteCatalog saves games to a games.json in a temporary directory and
// returns its path.
func WriteCatalog(t testing.TB, games []catalog.Game) string {
	path := filepath.Join(t.TempDir(), "games.json")
	err := catalog.Save(path, games)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

// NewClient is a fetch client without rate limiting or progress output.
func NewClient(t testing.TB) *fetch.Client {
	client, err := fetch.New(fetch.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return client
}
