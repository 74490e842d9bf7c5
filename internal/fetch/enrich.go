package fetch

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Enrichment holds branding signals scraped from a business's existing
// website. Every field is best effort; absent signals stay empty.
type Enrichment struct {
	LogoURL         string            `json:"logo_url,omitempty"`
	Favicon         string            `json:"favicon,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	MetaDescription string            `json:"meta_description,omitempty"`
	SocialLinks     map[string]string `json:"social_links,omitempty"` // network -> url
	BrandColors     []string          `json:"brand_colors,omitempty"` // hex, most frequent first
}

var socialHosts = map[string]string{
	"facebook.com":  "facebook",
	"instagram.com": "instagram",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"linkedin.com":  "linkedin",
	"youtube.com":   "youtube",
	"yelp.com":      "yelp",
	"tiktok.com":    "tiktok",
}

var hexColorRe = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)

var phoneRe = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

// Extract pulls branding signals out of a rendered page. baseURL resolves
// relative asset paths.
func Extract(html, baseURL string) (*Enrichment, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	e := &Enrichment{
		LogoURL:         extractLogo(doc, base),
		Favicon:         extractFavicon(doc, base),
		Phone:           extractPhone(doc),
		MetaDescription: extractMetaDescription(doc),
		SocialLinks:     extractSocialLinks(doc),
		BrandColors:     extractBrandColors(doc),
	}
	return e, nil
}

func extractLogo(doc *goquery.Document, base *url.URL) string {
	// og:image is the most reliable branding asset when present.
	if content, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && content != "" {
		return resolveURL(base, content)
	}

	selectors := []string{
		`img[class*="logo"]`,
		`img[id*="logo"]`,
		`img[alt*="logo"]`,
		`header img`,
		`.navbar img`,
	}
	for _, sel := range selectors {
		if src, ok := doc.Find(sel).First().Attr("src"); ok && src != "" {
			return resolveURL(base, src)
		}
	}
	return ""
}

func extractFavicon(doc *goquery.Document, base *url.URL) string {
	for _, sel := range []string{`link[rel="icon"]`, `link[rel="shortcut icon"]`, `link[rel="apple-touch-icon"]`} {
		if href, ok := doc.Find(sel).First().Attr("href"); ok && href != "" {
			return resolveURL(base, href)
		}
	}
	return ""
}

func extractMetaDescription(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	if content, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

func extractPhone(doc *goquery.Document) string {
	// tel: links are explicit and beat pattern matching.
	if href, ok := doc.Find(`a[href^="tel:"]`).First().Attr("href"); ok {
		return strings.TrimSpace(strings.TrimPrefix(href, "tel:"))
	}

	var found string
	doc.Find("header, footer, .contact, #contact").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := phoneRe.FindString(s.Text()); m != "" {
			found = m
			return false
		}
		return true
	})
	return found
}

func extractSocialLinks(doc *goquery.Document) map[string]string {
	links := make(map[string]string)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		parsed, err := url.Parse(href)
		if err != nil || parsed.Host == "" {
			return
		}

		host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
		for domain, network := range socialHosts {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				// Keep the first link per network; later ones are usually
				// share buttons.
				if _, exists := links[network]; !exists {
					links[network] = href
				}
				return
			}
		}
	})

	if len(links) == 0 {
		return nil
	}
	return links
}

// extractBrandColors pulls hex colors from inline styles and style blocks,
// ordered by frequency. Near-white and near-black values are dropped; they
// are backgrounds and text, not brand colors.
func extractBrandColors(doc *goquery.Document) []string {
	counts := make(map[string]int)

	tally := func(css string) {
		for _, m := range hexColorRe.FindAllString(css, -1) {
			c := normalizeHex(m)
			if isNeutralColor(c) {
				continue
			}
			counts[c]++
		}
	}

	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		tally(s.Text())
	})
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		tally(style)
	})

	if len(counts) == 0 {
		return nil
	}

	colors := make([]string, 0, len(counts))
	for c := range counts {
		colors = append(colors, c)
	}
	// Frequency sort, ties by value for determinism.
	for i := 0; i < len(colors); i++ {
		for j := i + 1; j < len(colors); j++ {
			if counts[colors[j]] > counts[colors[i]] ||
				(counts[colors[j]] == counts[colors[i]] && colors[j] < colors[i]) {
				colors[i], colors[j] = colors[j], colors[i]
			}
		}
	}

	if len(colors) > 5 {
		colors = colors[:5]
	}
	return colors
}

func normalizeHex(c string) string {
	c = strings.ToLower(c)
	if len(c) == 4 { // #abc -> #aabbcc
		return "#" + strings.Repeat(string(c[1]), 2) + strings.Repeat(string(c[2]), 2) + strings.Repeat(string(c[3]), 2)
	}
	return c
}

func isNeutralColor(hex string) bool {
	if len(hex) != 7 {
		return true
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return true
	}

	// Near-white or near-black.
	if r > 235 && g > 235 && b > 235 {
		return true
	}
	if r < 25 && g < 25 && b < 25 {
		return true
	}
	return false
}

func resolveURL(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}
