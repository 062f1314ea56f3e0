package assets

import (
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Options struct {
	// Hosts whose assets count as part of the game besides the page's own
	// origin, e.g. "gamemonetize.com" also admits html5.gamemonetize.com.
	AllowedHosts []string
	// When set, assets on an allowed host must also contain this string,
	// usually the game id, to be mirrored.
	Require string
	// Drop a leading id segment (longer than 20 characters) from mirrored
	// paths: /8xsm75r8jqigepm8fpihn8326rlgpxw5/game.js -> game.js.
	StripIDSegment bool
}

// HostAllowed reports whether host is one of AllowedHosts or a subdomain of
// one.
func (o Options) HostAllowed(host string) bool {
	host = strings.ToLower(host)
	for _, allowed := range o.AllowedHosts {
		allowed = strings.ToLower(allowed)
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

var inlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)["']([^"']+\.(?:js|wasm|data|br|unityweb)[^"']*)["']`),
	regexp.MustCompile(`(?i)(?:dataUrl|frameworkUrl|codeUrl|loaderUrl|streamingAssetsUrl)\s*[:=]\s*["']([^"']+)["']`),
	regexp.MustCompile(`(?i)src\s*[:=]\s*["']([^"']+)["']`),
	regexp.MustCompile(`(?i)url\s*[:=]\s*["']([^"']+)["']`),
	regexp.MustCompile(`["'](\./[^"']+)["']`),
	regexp.MustCompile(`(?i)["']([^"']+\.(?:png|jpg|jpeg|gif|webp|mp3|ogg|wav|json))["']`),
}

func skippable(ref string) bool {
	ref = strings.TrimSpace(ref)
	return ref == "" ||
		strings.HasPrefix(ref, "data:") ||
		strings.HasPrefix(ref, "javascript:") ||
		strings.HasPrefix(ref, "#")
}

func resolve(base *url.URL, ref string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	resolved.Fragment = ""
	return resolved.String(), true
}

// Extract lists the absolute URLs of the assets a page references: script,
// stylesheet, image and media tags, plus file references found in inline
// scripts. Inline references are only kept when they are relative or point
// at an allowed host. The result is sorted and free of duplicates.
func Extract(doc *goquery.Document, base *url.URL, opts Options) []string {
	found := map[string]struct{}{}
	add := func(ref string) {
		if skippable(ref) {
			return
		}
		if resolved, ok := resolve(base, ref); ok {
			found[resolved] = struct{}{}
		}
	}

	for _, sel := range tagAttrs {
		doc.Find(sel.selector).Each(func(_ int, s *goquery.Selection) {
			add(s.AttrOr(sel.attr, ""))
		})
	}

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if _, external := s.Attr("src"); external {
			return
		}
		body := s.Text()
		for _, pattern := range inlinePatterns {
			for _, m := range pattern.FindAllStringSubmatch(body, -1) {
				candidate := m[1]
				if skippable(candidate) {
					continue
				}
				resolved, ok := resolve(base, candidate)
				if !ok {
					continue
				}
				relative := strings.HasPrefix(candidate, "./") || strings.HasPrefix(candidate, "/")
				if !relative {
					parsed, err := url.Parse(resolved)
					if err != nil || !opts.HostAllowed(parsed.Hostname()) {
						continue
					}
				}
				found[resolved] = struct{}{}
			}
		}
	})

	out := make([]string, 0, len(found))
	for u := range found {
		out = append(out, u)
	}
	slices.Sort(out)
	return out
}

type tagAttr struct {
	selector string
	attr     string
}

var tagAttrs = []tagAttr{
	{"script[src]", "src"},
	{"link[href]", "href"},
	{"img[src]", "src"},
	{"source[src]", "src"},
}

// Mirrorable reports whether assetURL belongs to the game served from base
// and should be copied next to it.
func Mirrorable(assetURL string, base *url.URL, opts Options) bool {
	parsed, err := url.Parse(assetURL)
	if err != nil {
		return false
	}
	if strings.HasPrefix(assetURL, withSlash(base.String())) {
		return true
	}
	if !opts.HostAllowed(parsed.Hostname()) {
		return false
	}
	return opts.Require == "" || strings.Contains(assetURL, opts.Require)
}

// Rewrite points every mirrorable tag reference of the page at its local
// copy, relative to the game directory, and returns the new document.
func Rewrite(doc *goquery.Document, base *url.URL, opts Options) (string, error) {
	for _, sel := range tagAttrs {
		doc.Find(sel.selector).Each(func(_ int, s *goquery.Selection) {
			ref := s.AttrOr(sel.attr, "")
			if skippable(ref) {
				return
			}
			resolved, ok := resolve(base, ref)
			if !ok || !Mirrorable(resolved, base, opts) {
				return
			}
			local, err := RelativePath(resolved, base, opts.StripIDSegment)
			if err != nil {
				return
			}
			s.SetAttr(sel.attr, local)
		})
	}
	return doc.Html()
}

func withSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
