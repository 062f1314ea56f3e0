package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsGameAsset(t *testing.T) {
	cases := map[string]bool{
		"https://cdn.y8.com/games/slope/Build/slope.wasm":          true,
		"https://cdn.y8.com/games/slope/Build/slope.data.br":       true,
		"https://cdn.y8.com/games/slope/Build/slope.loader.js?v=2": true,
		"https://cdn.y8.com/games/slope/config.JSON":               true,
		"https://cdn.y8.com/games/slope/logo.png":                  false,
		"https://cdn.y8.com/games/slope/":                          false,
		"data:application/javascript;base64,AAAA":                  false,
		"wss://cdn.y8.com/socket.js":                               false,
	}
	for raw, expected := range cases {
		require.Equal(t, expected, IsGameAsset(raw), raw)
	}
}

func TestRun(t *testing.T) {
	opts := DefaultOptions()
	if !Available(opts) {
		t.Skip("no chromium binary available")
	}
	opts.Idle = 500 * time.Millisecond

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/game.js":
			w.Header().Set("content-type", "application/javascript")
			fmt.Fprint(w, `document.title = "Slope";`)
		default:
			fmt.Fprint(w, `<html><head><title>loading</title><script src="/game.js"></script></head><body></body></html>`)
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	capture, err := Run(ctx, srv.URL+"/", opts)
	require.NoError(t, err)
	require.Equal(t, "Slope", capture.Title)
	require.Contains(t, capture.HTML, "game.js")
	require.Equal(t, []string{srv.URL + "/game.js"}, capture.Assets)
}
