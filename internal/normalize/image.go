package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Stock images used when an entry carries no picture of its own.
const (
	FootballImage   = "https://images.unsplash.com/photo-1508098682722-e99c43a406b2?auto=format&fit=crop&q=80&w=800"
	BasketballImage = "https://images.unsplash.com/photo-1546519638-68e109498ffc?auto=format&fit=crop&q=80&w=800"
	DefaultImage    = "https://images.unsplash.com/photo-1461896836934-ffe607ba8211?auto=format&fit=crop&q=80&w=800"
)

var mediaAttrExpr = regexp.MustCompile(`(?i)url="([^"]+\.(jpg|png|jpeg|webp))"`)

type stockImage struct {
	keywords []string
	url      string
}

var stockImages = []stockImage{
	{keywords: []string{"football", "soccer"}, url: FootballImage},
	{keywords: []string{"basket"}, url: BasketballImage},
}

// ExtractImage resolves the picture for a content item: an <img> in the body,
// a media url attribute in the body, the entry's media enclosure, a topic
// stock image, then the generic default.
func ExtractImage(body, mediaURL, title string) string {
	if src := firstImage(body); src != "" {
		return src
	}
	if m := mediaAttrExpr.FindStringSubmatch(body); m != nil {
		return m[1]
	}
	if mediaURL != "" {
		return mediaURL
	}
	return stockImageFor(title)
}

func firstImage(body string) string {
	if !strings.Contains(strings.ToLower(body), "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}

func stockImageFor(title string) string {
	lower := strings.ToLower(title)
	for _, stock := range stockImages {
		for _, kw := range stock.keywords {
			if strings.Contains(lower, kw) {
				return stock.url
			}
		}
	}
	return DefaultImage
}
