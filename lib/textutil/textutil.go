package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName is the key used when checking the catalog for duplicate names.
func NormalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

var (
	versionSuffix  = regexp.MustCompile(`(?i)\s+v?\d+\.?\d*.*$`)
	parenthesised  = regexp.MustCompile(`\s+\(.*?\)`)
	bracketed      = regexp.MustCompile(`\s+\[.*?\]`)
	nonAlnumRun    = regexp.MustCompile(`[^a-z0-9]+`)
	nonWordOrSpace = regexp.MustCompile(`[^\w\s]`)
)

// CompareKey reduces a game name to something that survives the usual
// cosmetic differences between portals: version suffixes, "(Unblocked)"
// style annotations, punctuation and casing.
//
//	"Slope 2 (Unblocked)" -> "slope"
//	"Cookie Clicker"      -> "cookie-clicker"
func CompareKey(name string) string {
	name = versionSuffix.ReplaceAllString(name, "")
	name = parenthesised.ReplaceAllString(name, "")
	name = bracketed.ReplaceAllString(name, "")
	return strings.Trim(nonAlnumRun.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// LooseKey lowercases, drops punctuation and collapses whitespace.
func LooseKey(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	name = nonWordOrSpace.ReplaceAllString(name, "")
	return whitespaceRegex.ReplaceAllString(name, " ")
}

// DirectoryName is the directory a game lives in under the games dir.
func DirectoryName(name string) string {
	return strings.Trim(nonAlnumRun.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

var (
	nonSlug     = regexp.MustCompile(`[^\w\-]+`)
	dashRun     = regexp.MustCompile(`-{2,}`)
	nonDirChars = regexp.MustCompile(`[^\w\s\-]`)
	nonFileChar = regexp.MustCompile(`[^\w\-_.]`)
)

func Slugify(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))
	text = whitespaceRegex.ReplaceAllString(text, "-")
	text = nonSlug.ReplaceAllString(text, "")
	text = dashRun.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// SafeDirName turns a free form title into a directory name of at most max
// runes. A max <= 0 means no limit.
func SafeDirName(title string, max int) string {
	safe := strings.TrimSpace(nonDirChars.ReplaceAllString(title, ""))
	safe = strings.ToLower(whitespaceRegex.ReplaceAllString(safe, "-"))
	if max > 0 && utf8.RuneCountInString(safe) > max {
		safe = string([]rune(safe)[:max])
	}
	return safe
}

func SanitizeFilename(name string) string {
	return strings.ToLower(nonFileChar.ReplaceAllString(name, "_"))
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}
