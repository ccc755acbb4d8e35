// Package normalize shapes parsed feed entries into content and score items.
package normalize

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

var tagExpr = regexp.MustCompile(`<[^>]*>?`)

// CleanText strips markup and non-breaking spaces from a feed description.
func CleanText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	} else {
		text = tagExpr.ReplaceAllString(html, "")
	}
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, "&nbsp;", " ")
	return strings.TrimSpace(text)
}

// Identity derives a stable id from the origin link so the same article
// ingested twice maps to the same record.
func Identity(link string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

// SourceLabel turns https://www.espn.com/... into ESPN.
func SourceLabel(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Hostname() == "" {
		return "UNKNOWN"
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	label, _, _ := strings.Cut(host, ".")
	return strings.ToUpper(label)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
