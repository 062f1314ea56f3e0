package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gamecatalog/lib/catalog"
	"gamecatalog/lib/textutil"
	"gamecatalog/lib/zones"
)

// GNMath clones a zone from the gn-math registry. The target is the zone
// id.
type GNMath struct{}

func (GNMath) Name() string {
	return "gnmath"
}

func (GNMath) Scrape(ctx context.Context, target string, env Env) (Result, error) {
	id, err := strconv.Atoi(strings.TrimSpace(target))
	if err != nil {
		return Result{}, fmt.Errorf("gnmath: zone id %q: %w", target, err)
	}

	all, err := zones.Fetch(ctx, env.Client, env.Endpoints.Zones)
	if err != nil {
		return Result{}, err
	}
	var zone *zones.Zone
	for i := range all {
		if all[i].ID == id {
			zone = &all[i]
			break
		}
	}
	if zone == nil {
		return Result{}, fmt.Errorf("gnmath: %w: %d", zones.ErrZoneNotFound, id)
	}

	candidates := env.Endpoints.HTMLURLs(*zone)
	if !zones.IsGameURL(candidates[0]) {
		return Result{}, fmt.Errorf("gnmath: %s: %w", zone.Name, ErrNotGameURL)
	}

	dir, err := env.directory(textutil.DirectoryName, zone.Name, fmt.Sprintf("zone %d", id))
	if err != nil {
		return Result{}, fmt.Errorf("gnmath: %w", err)
	}
	gameDir := filepath.Join(env.GamesDir, dir)
	err = os.RemoveAll(gameDir)
	if err != nil {
		return Result{}, fmt.Errorf("gnmath: remove old copy: %w", err)
	}

	index := filepath.Join(gameDir, "index.html")
	var errs []error
	downloaded := false
	for _, u := range candidates {
		_, err := env.Client.Download(ctx, u, index)
		if err == nil {
			downloaded = true
			break
		}
		slog.DebugContext(ctx, "html candidate failed", "url", u, "err", err)
		errs = append(errs, err)
	}
	if !downloaded {
		return Result{}, fmt.Errorf("gnmath: download %s: %w", zone.Name, errors.Join(errs...))
	}

	result := Result{Files: []string{index}}
	cover := downloadCover(ctx, env, env.Endpoints.CoverURL(id), gameDir, catalog.DefaultImage)
	if cover != "" {
		result.Files = append(result.Files, cover)
	}

	result.Games = []catalog.Game{{
		Name:       zone.Name,
		Directory:  dir,
		Image:      catalog.DefaultImage,
		ImagePath:  env.Endpoints.CoverURL(id),
		Source:     env.source(),
		Author:     zone.Author,
		AuthorLink: zone.AuthorLink,
	}}
	return result, nil
}
