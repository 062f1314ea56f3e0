package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"gamecatalog/lib/assets"
	"gamecatalog/lib/catalog"
	"gamecatalog/lib/textutil"
)

const (
	DefaultFeedURL       = "https://rss.gamemonetize.com/rssfeed.php?format=json&category=All&type=html5&popularity=newest&company=All&amount=All"
	DefaultFeedCount     = 2
	gameMonetizeHost     = "gamemonetize.com"
	gameMonetizeTitleMax = 40
)

// GameMonetize mirrors the newest games of the GameMonetize feed. The
// target overrides the feed URL.
type GameMonetize struct {
	FeedURL string
	// Count is how many feed items are mirrored.
	Count int
	// Host is the domain game pages must be served from.
	Host string
}

type FeedItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Thumb       string `json:"thumb"`
	Category    string `json:"category"`
}

func (GameMonetize) Name() string {
	return "gamemonetize"
}

func (p GameMonetize) host() string {
	if p.Host == "" {
		return gameMonetizeHost
	}
	return p.Host
}

// DecodeFeed accepts the feed's array form as well as a single item.
func DecodeFeed(contents []byte) ([]FeedItem, error) {
	var items []FeedItem
	err := json.Unmarshal(contents, &items)
	if err == nil {
		return items, nil
	}
	var single FeedItem
	singleErr := json.Unmarshal(contents, &single)
	if singleErr != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	if single.URL == "" {
		return nil, nil
	}
	return []FeedItem{single}, nil
}

func (p GameMonetize) Scrape(ctx context.Context, target string, env Env) (Result, error) {
	feedURL := strings.TrimSpace(target)
	if feedURL == "" {
		feedURL = p.FeedURL
	}
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	count := p.Count
	if count <= 0 {
		count = DefaultFeedCount
	}

	var raw json.RawMessage
	err := env.Client.GetJSON(ctx, feedURL, &raw)
	if err != nil {
		return Result{}, fmt.Errorf("gamemonetize: fetch feed: %w", err)
	}
	items, err := DecodeFeed(raw)
	if err != nil {
		return Result{}, fmt.Errorf("gamemonetize: %w", err)
	}
	if len(items) > count {
		items = items[:count]
	}
	slog.InfoContext(ctx, "mirroring feed items", "count", len(items))

	outDir := env.ScrapedDir
	if outDir == "" {
		outDir = env.GamesDir
	}

	var result Result
	var errs []error
	for _, item := range items {
		game, files, err := p.mirrorItem(ctx, env, outDir, item)
		if err != nil {
			slog.WarnContext(ctx, "could not mirror game", "title", item.Title, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", item.Title, err))
			continue
		}
		result.Games = append(result.Games, game)
		result.Files = append(result.Files, files...)
	}
	err = errors.Join(errs...)
	if err != nil {
		err = fmt.Errorf("gamemonetize: %w", err)
	}
	return result, err
}

// ItemDirectory is <path id>-<title> for a feed item, the path id being
// the last segment of the game URL.
func ItemDirectory(item FeedItem) (pathID, dir string) {
	pathID = "game"
	if u, err := url.Parse(strings.TrimRight(item.URL, "/")); err == nil {
		if seg := path.Base(u.Path); seg != "." && seg != "/" {
			pathID = seg
		}
	}
	title := textutil.SafeDirName(item.Title, gameMonetizeTitleMax)
	if title == "" {
		return pathID, pathID
	}
	return pathID, pathID + "-" + title
}

// isGameURL accepts http(s) URLs on the portal's host or its subdomains.
func (p GameMonetize) isGameURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	return assets.Options{AllowedHosts: []string{p.host()}}.HostAllowed(u.Hostname())
}

func (p GameMonetize) mirrorItem(ctx context.Context, env Env, outDir string, item FeedItem) (catalog.Game, []string, error) {
	gameURL := strings.TrimRight(strings.TrimSpace(item.URL), "/")
	if !p.isGameURL(gameURL) {
		return catalog.Game{}, nil, fmt.Errorf("not a %s game url: %q", p.host(), item.URL)
	}
	pathID, dir := ItemDirectory(item)
	dir, err := checkDirectory(dir)
	if err != nil {
		return catalog.Game{}, nil, err
	}
	gameDir := filepath.Join(outDir, dir)

	page, err := env.Client.GetPage(ctx, gameURL)
	if err != nil {
		return catalog.Game{}, nil, err
	}
	doc, err := page.Document()
	if err != nil {
		return catalog.Game{}, nil, fmt.Errorf("parse page: %w", err)
	}
	base, err := url.Parse(gameURL + "/")
	if err != nil {
		return catalog.Game{}, nil, err
	}

	opts := assets.Options{
		AllowedHosts:   []string{p.host()},
		Require:        pathID,
		StripIDSegment: true,
	}
	files, err := mirror(ctx, env, doc, base, gameDir, opts)
	if err != nil {
		return catalog.Game{}, nil, err
	}

	game := catalog.Game{
		Name:      strings.TrimSpace(item.Title),
		Directory: dir,
		ImagePath: item.Thumb,
		Source:    env.source(),
	}
	if item.Thumb != "" {
		ext := textutil.SanitizeFilename(path.Ext(strings.SplitN(item.Thumb, "?", 2)[0]))
		if ext == "" {
			ext = ".jpg"
		}
		cover := downloadCover(ctx, env, item.Thumb, gameDir, "cover"+ext)
		if cover != "" {
			files = append(files, cover)
			game.Image = filepath.Base(cover)
		}
	}
	if game.Name == "" {
		game.Name = pathID
	}
	return game, files, nil
}
