package assets

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

var ErrOutsideDir = errors.New("asset path escapes the game directory")

// idSegmentLength is the length above which a leading path segment is
// taken to be a portal's game id rather than a real directory.
const idSegmentLength = 20

// RelativePath maps an asset URL to a slash separated path inside the game
// directory. When base is given and the asset lives under it the base path
// is removed first. An empty path maps to index.html.
func RelativePath(assetURL string, base *url.URL, stripIDSegment bool) (string, error) {
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return "", err
	}

	p := path.Clean("/" + parsed.Path)
	if base != nil && strings.EqualFold(parsed.Host, base.Host) {
		basePath := path.Clean("/" + base.Path)
		if basePath != "/" && strings.HasPrefix(p, basePath+"/") {
			p = strings.TrimPrefix(p, basePath)
		}
	}
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return "index.html", nil
	}

	parts := strings.Split(p, "/")
	if stripIDSegment && len(parts) > 1 && len(parts[0]) > idSegmentLength {
		parts = parts[1:]
	}
	for _, part := range parts {
		if part == ".." {
			return "", fmt.Errorf("%s: %w", assetURL, ErrOutsideDir)
		}
	}
	return strings.Join(parts, "/"), nil
}

// LocalPath is where an asset is stored under gameDir.
func LocalPath(assetURL, gameDir string, stripIDSegment bool) (string, error) {
	return localPath(assetURL, nil, gameDir, stripIDSegment)
}

func localPath(assetURL string, base *url.URL, gameDir string, stripIDSegment bool) (string, error) {
	rel, err := RelativePath(assetURL, base, stripIDSegment)
	if err != nil {
		return "", err
	}
	full := filepath.Join(gameDir, filepath.FromSlash(rel))
	check, err := filepath.Rel(gameDir, full)
	if err != nil || check == ".." || strings.HasPrefix(check, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", assetURL, ErrOutsideDir)
	}
	return full, nil
}

type Target struct {
	URL  string
	Path string
}

// Plan decides which of the extracted urls are mirrored into gameDir and
// where each one goes. The page itself and anything that would overwrite
// index.html are left out, since the page is written separately.
func Plan(urls []string, base *url.URL, gameDir string, opts Options) []Target {
	page := strings.TrimSuffix(base.String(), "/")
	seen := map[string]struct{}{}

	var out []Target
	for _, u := range urls {
		if strings.TrimSuffix(u, "/") == page {
			continue
		}
		if !Mirrorable(u, base, opts) {
			continue
		}
		dest, err := localPath(u, base, gameDir, opts.StripIDSegment)
		if err != nil {
			continue
		}
		if filepath.Base(dest) == "index.html" && filepath.Dir(dest) == filepath.Clean(gameDir) {
			continue
		}
		if _, dup := seen[dest]; dup {
			continue
		}
		seen[dest] = struct{}{}
		out = append(out, Target{URL: u, Path: dest})
	}
	return out
}

// BaseDir is the directory a page URL lives in: the page's own assets are
// expected below it.
func BaseDir(page *url.URL) *url.URL {
	dir := page.ResolveReference(&url.URL{Path: "./"})
	dir.RawQuery = ""
	dir.Fragment = ""
	return dir
}
