package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gamecatalog/lib/catalog"
	"gamecatalog/lib/textutil"
	"gamecatalog/lib/zones"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/reconcile")

// DefaultSource is the source of entries that were cloned from gn-math.
const DefaultSource = "non-semag"

type Options struct {
	// Source restricts reconciliation to entries with this source, empty
	// means every entry.
	Source    string
	Endpoints zones.Endpoints
	// FuzzyThreshold enables the fuzzy pass when positive. Links at or
	// above it are applied, weaker ones are only suggested.
	FuzzyThreshold float64
	// MoveDirs renames game directories under GamesDir along with the
	// entries' directory field.
	MoveDirs bool
	GamesDir string
}

func DefaultOptions() Options {
	return Options{
		Source:    DefaultSource,
		Endpoints: zones.DefaultEndpoints(),
	}
}

type Entry struct {
	Index   int
	Name    string
	Zone    zones.Zone
	Kind    Kind
	Changes []Change
	Moved   bool
}

type Suggestion struct {
	Index       int
	Name        string
	Zone        zones.Zone
	Correlation float64
}

type Result struct {
	Games      []catalog.Game
	Considered int
	Matched    int
	Updated    int
	// Entries holds every entry that was changed.
	Entries []Entry
	// Unmatched holds entries that point at a gn-math cover but have no
	// zone in the registry.
	Unmatched   []catalog.Game
	Suggestions []Suggestion
}

func (o Options) considers(g catalog.Game) bool {
	return o.Source == "" || g.Source == o.Source
}

// Reconcile matches catalog entries against the zone registry and corrects
// their name, directory, cover and author. The input slice is not modified.
// An error is only returned for directories that could not be moved, the
// result is complete either way.
func Reconcile(ctx context.Context, games []catalog.Game, registry *zones.Registry, opts Options) (Result, error) {
	ctx, span := tracer.Start(ctx, "Reconcile")
	defer span.End()

	result := Result{Games: make([]catalog.Game, len(games))}
	for i, g := range games {
		result.Games[i] = g.Clone()
	}

	claimed := map[int]struct{}{}
	var leftover []int
	var moveErrs []error

	record := func(i int, z zones.Zone, kind Kind) {
		g := &result.Games[i]
		before := g.Name
		changes := Apply(g, z, opts.Endpoints)
		result.Matched++
		claimed[z.ID] = struct{}{}
		if len(changes) == 0 {
			return
		}
		result.Updated++

		entry := Entry{Index: i, Name: before, Zone: z, Kind: kind, Changes: changes}
		if dir, ok := Changed(changes, "directory"); ok && opts.MoveDirs {
			moved, err := moveDir(opts.GamesDir, dir.Old, dir.New)
			if err != nil {
				moveErrs = append(moveErrs, err)
			}
			entry.Moved = moved
		}
		result.Entries = append(result.Entries, entry)
		slog.DebugContext(ctx, "reconciled entry", "name", before, "zone", z.ID, "kind", kind, "changes", len(changes))
	}

	for i, g := range result.Games {
		if !opts.considers(g) {
			continue
		}
		result.Considered++
		z, kind, ok := Match(g, registry)
		if !ok {
			leftover = append(leftover, i)
			continue
		}
		record(i, z, kind)
	}

	if opts.FuzzyThreshold > 0 && len(leftover) > 0 {
		var free []zones.Zone
		for _, z := range registry.Zones() {
			if _, ok := claimed[z.ID]; !ok {
				free = append(free, z)
			}
		}
		left := make([]string, len(leftover))
		for k, i := range leftover {
			left[k] = textutil.CompareKey(result.Games[i].Name)
		}
		right := make([]string, len(free))
		for k, z := range free {
			right[k] = textutil.CompareKey(z.Name)
		}

		linked := map[int]struct{}{}
		for _, link := range CreateLinks(left, right) {
			i := leftover[link.Left]
			z := free[link.Right]
			if link.Correlation < opts.FuzzyThreshold {
				result.Suggestions = append(result.Suggestions, Suggestion{
					Index:       i,
					Name:        result.Games[i].Name,
					Zone:        z,
					Correlation: link.Correlation,
				})
				continue
			}
			linked[i] = struct{}{}
			record(i, z, KindFuzzy)
		}
		leftover = slices.DeleteFunc(leftover, func(i int) bool {
			_, ok := linked[i]
			return ok
		})
		slices.SortFunc(result.Suggestions, func(a, b Suggestion) int {
			return a.Index - b.Index
		})
		slices.SortFunc(result.Entries, func(a, b Entry) int {
			return a.Index - b.Index
		})
	}

	for _, i := range leftover {
		if opts.Endpoints.IsCoverURL(result.Games[i].ImagePath) {
			result.Unmatched = append(result.Unmatched, result.Games[i])
		}
	}

	span.SetAttributes(
		attribute.Int("considered", result.Considered),
		attribute.Int("matched", result.Matched),
		attribute.Int("updated", result.Updated),
	)
	err := errors.Join(moveErrs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result, err
}

// moveDir renames gamesDir/from to gamesDir/to when the former exists and
// the latter does not.
func moveDir(gamesDir, from, to string) (bool, error) {
	if from == "" || to == "" {
		return false, nil
	}
	src := filepath.Join(gamesDir, from)
	dst := filepath.Join(gamesDir, to)
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return false, nil
	}
	_, err = os.Stat(dst)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("move %s: %w", from, err)
	}
	err = os.Rename(src, dst)
	if err != nil {
		return false, fmt.Errorf("move %s: %w", from, err)
	}
	return true, nil
}
