package scrape

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gamecatalog/lib/assets"
	"gamecatalog/lib/catalog"
	"gamecatalog/lib/textutil"
)

// StaticPage mirrors any page whose game files are referenced from its
// HTML, such as escaperoad.org. The target is the page URL.
type StaticPage struct{}

func (StaticPage) Name() string {
	return "page"
}

func (StaticPage) Scrape(ctx context.Context, target string, env Env) (Result, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return Result{}, fmt.Errorf("page: %w", ErrMissingTarget)
	}

	page, err := env.Client.GetPage(ctx, target)
	if err != nil {
		return Result{}, fmt.Errorf("page: %w", err)
	}
	doc, err := page.Document()
	if err != nil {
		return Result{}, fmt.Errorf("page: parse: %w", err)
	}
	pageURL, err := page.Base()
	if err != nil {
		return Result{}, err
	}
	base := assets.BaseDir(pageURL)

	name := pageName(doc, target)
	dir, err := env.directory(textutil.Slugify, name, nameFromURL(target), pageURL.Hostname())
	if err != nil {
		return Result{}, fmt.Errorf("page: %w", err)
	}
	gameDir := filepath.Join(env.GamesDir, dir)
	coverURL := assets.Cover(doc, pageURL)

	files, err := mirror(ctx, env, doc, base, gameDir, assets.Options{})
	if err != nil {
		return Result{}, fmt.Errorf("page: %w", err)
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
