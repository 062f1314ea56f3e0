package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gamecatalog/lib/assets"
	"gamecatalog/lib/fetch"
	"gamecatalog/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

func writeFile(dest, contents string) error {
	err := os.MkdirAll(filepath.Dir(dest), 0755)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, []byte(contents), 0644)
}

// mirror writes the page rewritten to point at local copies as gameDir's
// index.html and downloads the assets it references, plus extra. Assets
// that fail to download are logged and skipped.
func mirror(ctx context.Context, env Env, doc *goquery.Document, base *url.URL, gameDir string, opts assets.Options, extra ...string) ([]string, error) {
	urls := append(assets.Extract(doc, base, opts), extra...)
	targets := assets.Plan(urls, base, gameDir, opts)

	html, err := assets.Rewrite(doc, base, opts)
	if err != nil {
		return nil, fmt.Errorf("rewrite page: %w", err)
	}
	index := filepath.Join(gameDir, "index.html")
	err = writeFile(index, html)
	if err != nil {
		return nil, err
	}
	files := []string{index}

	jobs := make([]fetch.Job, len(targets))
	for i, t := range targets {
		jobs[i] = fetch.Job{URL: t.URL, Dest: t.Path}
	}
	results := env.Client.DownloadAll(ctx, jobs, env.Parallelism)
	for _, r := range results {
		if r.Err == nil {
			files = append(files, r.Dest)
		}
	}
	if err := fetch.Failures(results); err != nil {
		failed := len(results) - fetch.Succeeded(results)
		slog.WarnContext(ctx, "some assets could not be mirrored", "dir", gameDir, "failed", failed, "total", len(results), "err", err)
	}
	return files, nil
}

// downloadCover saves the cover next to the game. A missing cover is not
// fatal, the file name is empty when nothing was saved.
func downloadCover(ctx context.Context, env Env, coverURL, gameDir, name string) string {
	if coverURL == "" {
		slog.WarnContext(ctx, "no cover image found", "dir", gameDir)
		return ""
	}
	dest := filepath.Join(gameDir, name)
	_, err := env.Client.Download(ctx, coverURL, dest)
	if err != nil {
		slog.WarnContext(ctx, "could not download cover", "url", coverURL, "err", err)
		return ""
	}
	return dest
}

var titleSeparators = []string{" \U0001F579", " | ", " - ", " \u2013 ", " \u2014 "}

// cleanTitle cuts portal branding such as " - Play online on Y8.com" off a
// page title.
func cleanTitle(title string) string {
	title = htmlutil.CleanText(title)
	for _, sep := range titleSeparators {
		before, _, ok := strings.Cut(title, sep)
		if ok && strings.TrimSpace(before) != "" {
			title = before
		}
	}
	return strings.TrimSpace(title)
}

// nameFromURL derives a display name from the last path segment of a URL.
func nameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	seg := path.Base(strings.TrimSuffix(u.Path, "/"))
	if seg == "." || seg == "/" {
		return u.Hostname()
	}
	seg = strings.TrimSuffix(seg, path.Ext(seg))
	return strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(seg))
}

func pageName(doc *goquery.Document, pageURL string) string {
	if name := cleanTitle(htmlutil.Title(doc)); name != "" {
		return name
	}
	return nameFromURL(pageURL)
}

// directory picks the game's directory name: the override, else the first
// candidate that derive turns into a non-empty name. It never names
// GamesDir itself or anything outside it.
func (env Env) directory(derive func(string) string, candidates ...string) (string, error) {
	if env.Directory != "" {
		return checkDirectory(env.Directory)
	}
	for _, c := range candidates {
		if dir := derive(c); dir != "" {
			return checkDirectory(dir)
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNoDirectory, candidates)
}

func checkDirectory(dir string) (string, error) {
	clean := filepath.Clean(dir)
	if clean == "." || clean == ".." || filepath.IsAbs(dir) || strings.ContainsAny(dir, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrNoDirectory, dir)
	}
	return dir, nil
}

func (env Env) source() string {
	if env.Source == "" {
		return "non-semag"
	}
	return env.Source
}
