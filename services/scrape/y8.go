package scrape

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"

	"gamecatalog/lib/assets"
	"gamecatalog/lib/browser"
	"gamecatalog/lib/catalog"
	"gamecatalog/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Y8 mirrors a Y8 game. Its files are only requested once the game runs,
// so the page is loaded in a browser and the requests are recorded. The
// target is the page URL.
type Y8 struct{}

func (Y8) Name() string {
	return "y8"
}

// assetHosts lists the hosts the captured assets were served from.
func assetHosts(urls []string) []string {
	var hosts []string
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Hostname() == "" {
			continue
		}
		if !slices.Contains(hosts, u.Hostname()) {
			hosts = append(hosts, u.Hostname())
		}
	}
	return hosts
}

func (Y8) Scrape(ctx context.Context, target string, env Env) (Result, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return Result{}, fmt.Errorf("y8: %w", ErrMissingTarget)
	}
	pageURL, err := url.Parse(target)
	if err != nil {
		return Result{}, fmt.Errorf("y8: %w", err)
	}

	capture, err := browser.Run(ctx, target, env.Browser)
	if err != nil {
		return Result{}, fmt.Errorf("y8: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(capture.HTML))
	if err != nil {
		return Result{}, fmt.Errorf("y8: parse page: %w", err)
	}

	name := cleanTitle(capture.Title)
	if name == "" {
		name = pageName(doc, target)
	}
	dir, err := env.directory(textutil.Slugify, name, nameFromURL(target), pageURL.Hostname())
	if err != nil {
		return Result{}, fmt.Errorf("y8: %w", err)
	}
	gameDir := filepath.Join(env.GamesDir, dir)
	coverURL := assets.Cover(doc, pageURL)

	opts := assets.Options{AllowedHosts: assetHosts(capture.Assets)}
	files, err := mirror(ctx, env, doc, assets.BaseDir(pageURL), gameDir, opts, capture.Assets...)
	if err != nil {
		return Result{}, fmt.Errorf("y8: %w", err)
	}

	result := Result{Files: files}
	game := catalog.Game{
		Name:      name,
		Directory: dir,
		Source:    env.source(),
	}
	cover := downloadCover(ctx, env, coverURL, gameDir, catalog.DefaultImage)
	if cover != "" {
		result.Files = append(result.Files, cover)
		game.Image = catalog.DefaultImage
	}
	result.Games = []catalog.Game{game}
	return result, nil
}
