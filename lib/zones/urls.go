package zones

import (
	"strconv"
	"strings"
)

const (
	DefaultZonesURL   = "https://cdn.jsdelivr.net/gh/gn-math/assets@main/zones.json"
	DefaultCoversBase = "https://cdn.jsdelivr.net/gh/gn-math/covers@main/"
	DefaultHTMLBase   = "https://cdn.jsdelivr.net/gh/gn-math/html@main/"
)

const htmlPlaceholder = "{HTML_URL}"

type Endpoints struct {
	Zones      string `json:"url"`
	CoversBase string `json:"covers_base"`
	HTMLBase   string `json:"html_base"`
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Zones:      DefaultZonesURL,
		CoversBase: DefaultCoversBase,
		HTMLBase:   DefaultHTMLBase,
	}
}

func withSlash(base string) string {
	if strings.HasSuffix(base, "/") {
		return base
	}
	return base + "/"
}

func (e Endpoints) CoverURL(id int) string {
	return withSlash(e.CoversBase) + strconv.Itoa(id) + ".png"
}

// IsCoverURL reports whether imagePath points into the covers base.
func (e Endpoints) IsCoverURL(imagePath string) bool {
	return imagePath != "" && strings.HasPrefix(imagePath, withSlash(e.CoversBase))
}

// HTMLURLs lists the URLs a zone's page may be downloaded from, most likely
// first.
func (e Endpoints) HTMLURLs(z Zone) []string {
	base := withSlash(e.HTMLBase)
	id := strconv.Itoa(z.ID)

	var primary string
	switch {
	case strings.Contains(z.URL, htmlPlaceholder):
		primary = strings.ReplaceAll(z.URL, htmlPlaceholder, strings.TrimRight(base, "/"))
	case strings.HasPrefix(z.URL, "http://") || strings.HasPrefix(z.URL, "https://"):
		primary = z.URL
	default:
		primary = base + id + "/index.html"
	}

	candidates := []string{
		primary,
		base + id + ".html",
		base + id + "/index.html",
		base + id + "-a.html",
	}
	out := make([]string, 0, len(candidates))
	seen := map[string]struct{}{}
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// IsGameURL is false for zones that only link to a community invite.
func IsGameURL(u string) bool {
	return !strings.HasPrefix(u, "https://discord.gg") &&
		!strings.HasPrefix(u, "https://discord.com")
}
