package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var whitespace = regexp.MustCompile(`\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText collapses the text of a node into a single printable line.
func CleanText(s string) string {
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(removeNonPrintable(s))
}

// Title is the document title, falling back to og:title and then the
// first h1.
func Title(doc *goquery.Document) string {
	title := firstText(doc.Find("title"))
	if title != "" {
		return title
	}
	title = MetaContent(doc, "og:title")
	if title != "" {
		return title
	}
	return firstText(doc.Find("h1"))
}

func firstText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return CleanText(GetText(sel.Get(0)))
}

// MetaContent returns the content of the first <meta> whose property or
// name equals key.
func MetaContent(doc *goquery.Document, key string) string {
	content := ""
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.AttrOr("property", "") != key && s.AttrOr("name", "") != key {
			return true
		}
		content = strings.TrimSpace(s.AttrOr("content", ""))
		return content == ""
	})
	return content
}
