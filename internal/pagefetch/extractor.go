package pagefetch

import (
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/seo-meta-service/internal/domain"
	"github.com/user/seo-meta-service/pkg/utils"
)

// Extract parses an HTML document and pulls out the metadata that matters
// for writing new tags.
func Extract(pageURL string, r io.Reader) (*domain.PageSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	snap := &domain.PageSnapshot{
		URL:       pageURL,
		Title:     collapse(doc.Find("title").First().Text()),
		Headings:  []string{},
		FetchedAt: time.Now().UTC(),
	}

	// Meta tags; og: values only fill gaps
	var ogTitle, ogDescription string
	doc.Find("meta").Each(func(i int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		property, _ := s.Attr("property")
		content, _ := s.Attr("content")
		content = collapse(content)
		if content == "" {
			return
		}
		switch {
		case strings.EqualFold(name, "description"):
			if snap.MetaDescription == "" {
				snap.MetaDescription = content
			}
		case strings.EqualFold(property, "og:description"):
			ogDescription = content
		case strings.EqualFold(property, "og:title"):
			ogTitle = content
		}
	})
	if snap.Title == "" {
		snap.Title = ogTitle
	}
	if snap.MetaDescription == "" {
		snap.MetaDescription = ogDescription
	}

	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		snap.Language = strings.TrimSpace(lang)
	}

	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
		snap.Canonical = strings.TrimSpace(href)
		if base, err := url.Parse(pageURL); err == nil {
			if abs, err := utils.ToAbsoluteURL(base, snap.Canonical); err == nil {
				snap.Canonical = abs
			}
		}
	}

	doc.Find("h1, h2, h3").Each(func(i int, s *goquery.Selection) {
		if text := collapse(s.Text()); text != "" {
			snap.Headings = append(snap.Headings, text)
		}
	})

	// Extract clean body text content
	doc.Find("script, style, noscript, template").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})
	snap.Text = collapse(doc.Find("body").Text())

	return snap, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
