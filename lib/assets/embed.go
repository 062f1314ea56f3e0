package assets

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"gamecatalog/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

var ErrNoEmbed = errors.New("no embedded game found")

// FindEmbed locates the URL of the iframe that hosts the game on a portal
// page: iframe#game-iframe, then an iframe with "game" in its class, then
// any iframe, then a game container's data-src.
func FindEmbed(doc *goquery.Document, base *url.URL) (string, error) {
	candidates := []*goquery.Selection{
		doc.Find("iframe#game-iframe"),
		doc.Find("iframe").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.Contains(strings.ToLower(s.AttrOr("class", "")), "game")
		}),
		doc.Find("iframe"),
	}
	for _, sel := range candidates {
		src := strings.TrimSpace(sel.First().AttrOr("src", ""))
		if src == "" || skippable(src) {
			continue
		}
		if resolved, ok := resolve(base, src); ok {
			return resolved, nil
		}
	}

	container := doc.Find("#game-iframe").First()
	for _, attr := range []string{"data-src", "data-url"} {
		src := strings.TrimSpace(container.AttrOr(attr, ""))
		if src == "" {
			continue
		}
		if resolved, ok := resolve(base, src); ok {
			return resolved, nil
		}
	}
	return "", ErrNoEmbed
}

var coverClass = regexp.MustCompile(`(?i)game|cover|thumbnail`)

// Cover finds the cover image of a portal page: og:image, then an img whose
// class mentions game, cover or thumbnail. Empty when there is none.
func Cover(doc *goquery.Document, base *url.URL) string {
	if og := htmlutil.MetaContent(doc, "og:image"); og != "" {
		if resolved, ok := resolve(base, og); ok {
			return resolved
		}
	}
	cover := ""
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !coverClass.MatchString(s.AttrOr("class", "")) {
			return true
		}
		if resolved, ok := resolve(base, s.AttrOr("src", "")); ok {
			cover = resolved
			return false
		}
		return true
	})
	return cover
}

// ExternalIframes lists the absolute http(s) iframe sources in a document,
// in order of appearance.
func ExternalIframes(doc *goquery.Document) []string {
	var out []string
	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
			out = append(out, src)
		}
	})
	return out
}
