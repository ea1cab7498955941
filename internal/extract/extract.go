// Package extract parses page content into outgoing corpus links.
package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// defaultKeyPattern matches the corpus naming scheme: pages are numbered
// HTML objects ("17.html"). Anything else in an href is external noise.
var defaultKeyPattern = regexp.MustCompile(`^\d+\.html$`)

// Extractor pulls same-corpus link targets out of raw HTML.
type Extractor struct {
	pattern *regexp.Regexp
}

// New returns an Extractor using the default corpus key pattern.
func New() *Extractor {
	return &Extractor{pattern: defaultKeyPattern}
}

// NewWithPattern returns an Extractor recognizing a custom key pattern.
// A nil pattern falls back to the default.
func NewWithPattern(pattern *regexp.Regexp) *Extractor {
	if pattern == nil {
		pattern = defaultKeyPattern
	}
	return &Extractor{pattern: pattern}
}

// Links returns the distinct corpus pages referenced by anchor tags in
// content, in order of first appearance. Hrefs outside the corpus naming
// scheme are ignored; malformed markup yields whatever anchors the parser
// could recover. Links never fails.
func (e *Extractor) Links(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if !e.pattern.MatchString(href) {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})
	return links
}
