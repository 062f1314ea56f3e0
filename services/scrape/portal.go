package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"gamecatalog/lib/browser"
	"gamecatalog/lib/catalog"
	"gamecatalog/lib/fetch"
	"gamecatalog/lib/zones"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/scrape")

var (
	ErrUnknownPortal = errors.New("unknown portal")
	ErrNotGameURL    = errors.New("zone does not link to a game")
	ErrMissingTarget = errors.New("portal needs a target")
	ErrNoDirectory   = errors.New("no usable game directory name")
)

// Env is everything a portal needs to write a game to disk.
type Env struct {
	Client *fetch.Client
	// GamesDir holds one directory per game.
	GamesDir string
	// ScrapedDir receives bulk scrapes, GamesDir is used when it is empty.
	ScrapedDir string
	Endpoints  zones.Endpoints
	Browser    browser.Options
	// Source is written to the entries the portals create.
	Source string
	// Directory overrides the directory name derived from the game's name.
	Directory   string
	Parallelism int
}

// Result lists the catalog entries a scrape produced and every file it
// wrote.
type Result struct {
	Games []catalog.Game
	Files []string
}

type Portal interface {
	Name() string
	Scrape(ctx context.Context, target string, env Env) (Result, error)
}

type Registry struct {
	portals map[string]Portal
}

func NewRegistry(portals ...Portal) *Registry {
	r := &Registry{portals: map[string]Portal{}}
	for _, p := range portals {
		r.portals[p.Name()] = p
	}
	return r
}

// Default registers every portal, gamemonetize with the given feed
// settings.
func Default(gm GameMonetize) *Registry {
	return NewRegistry(
		GNMath{},
		CrazyGames{},
		gm,
		Y8{},
		StaticPage{},
	)
}

func (r *Registry) Get(name string) (Portal, error) {
	p, ok := r.portals[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPortal, name, strings.Join(r.Names(), ", "))
	}
	return p, nil
}

func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.portals))
}

// Scrape runs the named portal against target.
func (r *Registry) Scrape(ctx context.Context, name, target string, env Env) (Result, error) {
	p, err := r.Get(name)
	if err != nil {
		return Result{}, err
	}

	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()
	span.SetAttributes(
		attribute.String("portal", p.Name()),
		attribute.String("target", target),
	)

	slog.InfoContext(ctx, "scraping", "portal", p.Name(), "target", target)
	result, err := p.Scrape(ctx, target, env)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(
		attribute.Int("games", len(result.Games)),
		attribute.Int("files", len(result.Files)),
	)
	return result, err
}
