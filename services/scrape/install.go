package scrape

import (
	"context"

	"gamecatalog/lib/catalog"
)

// Install adds the scraped entries to the catalog at path, replacing the
// entries for the same games. The replaced entries are returned.
func Install(ctx context.Context, path string, result Result) ([]catalog.Game, error) {
	var replaced []catalog.Game
	err := catalog.Update(ctx, path, func(games []catalog.Game) ([]catalog.Game, error) {
		replaced = nil
		for _, g := range result.Games {
			var old *catalog.Game
			games, old = catalog.Upsert(games, g)
			if old != nil {
				replaced = append(replaced, *old)
			}
		}
		return games, nil
	})
	if err != nil {
		return nil, err
	}
	return replaced, nil
}
