package scrape

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gamecatalog/lib/assets"
	"gamecatalog/lib/catalog"
	"gamecatalog/lib/htmlpatch"
	"gamecatalog/lib/textutil"
)

const crazyGamesBase = "https://www.crazygames.com/game/"

// CrazyGames wraps the embedded game of a CrazyGames page in a local
// iframe page. The target is the page URL or the game's slug.
type CrazyGames struct{}

func (CrazyGames) Name() string {
	return "crazygames"
}

func (CrazyGames) Scrape(ctx context.Context, target string, env Env) (Result, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return Result{}, fmt.Errorf("crazygames: %w", ErrMissingTarget)
	}
	pageURL := target
	if !strings.Contains(target, "://") {
		pageURL = crazyGamesBase + strings.Trim(target, "/")
	}

	page, err := env.Client.GetPage(ctx, pageURL)
	if err != nil {
		return Result{}, fmt.Errorf("crazygames: %w", err)
	}
	doc, err := page.Document()
	if err != nil {
		return Result{}, fmt.Errorf("crazygames: parse page: %w", err)
	}
	base, err := page.Base()
	if err != nil {
		return Result{}, err
	}

	embed, err := assets.FindEmbed(doc, base)
	if err != nil {
		return Result{}, fmt.Errorf("crazygames: %s: %w", pageURL, err)
	}

	name := pageName(doc, pageURL)
	dir, err := env.directory(textutil.Slugify, name, nameFromURL(pageURL))
	if err != nil {
		return Result{}, fmt.Errorf("crazygames: %w", err)
	}
	gameDir := filepath.Join(env.GamesDir, dir)

	wrapper, err := htmlpatch.Wrapper(name, embed)
	if err != nil {
		return Result{}, fmt.Errorf("crazygames: render wrapper: %w", err)
	}
	index := filepath.Join(gameDir, "index.html")
	err = writeFile(index, wrapper)
	if err != nil {
		return Result{}, err
	}

	result := Result{Files: []string{index}}
	game := catalog.Game{
		Name:      name,
		Directory: dir,
		Source:    env.source(),
		URL:       embed,
	}
	cover := downloadCover(ctx, env, assets.Cover(doc, base), gameDir, catalog.DefaultImage)
	if cover != "" {
		result.Files = append(result.Files, cover)
		game.Image = catalog.DefaultImage
	}
	result.Games = []catalog.Game{game}
	return result, nil
}
