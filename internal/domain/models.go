package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxTitleLength is the longest meta title the generator is asked for.
	MaxTitleLength = 60
	// MaxDescriptionLength is the longest meta description the generator is asked for.
	MaxDescriptionLength = 155

	// nearLimitMargin marks counts within this distance of a limit as "near".
	nearLimitMargin = 10
	// minContentLength is the content length a submission needs when no URL is given.
	minContentLength = 20
)

// AnalysisInputs is the payload a user submits for one generation.
type AnalysisInputs struct {
	URL               string `json:"url"`
	TargetPageContent string `json:"targetPageContent"`
	MarketingFocus    string `json:"marketingFocus"`
}

// TrimmedURL returns the URL with surrounding whitespace removed.
func (in AnalysisInputs) TrimmedURL() string {
	return strings.TrimSpace(in.URL)
}

// Ready reports whether the inputs carry enough to analyze: a URL or a
// meaningful amount of page text.
func (in AnalysisInputs) Ready() bool {
	return in.TrimmedURL() != "" || len(in.TargetPageContent) > minContentLength
}

// MetaOption is one suggested title/description pair.
type MetaOption struct {
	Type                  string `json:"type"`
	MetaTitle             string `json:"meta_title"`
	MetaTitleLength       int    `json:"meta_title_length"`
	MetaDescription       string `json:"meta_description"`
	MetaDescriptionLength int    `json:"meta_description_length"`
}

// TitleStatus grades the title length against MaxTitleLength.
func (o MetaOption) TitleStatus() LengthStatus {
	return GradeLength(o.MetaTitleLength, MaxTitleLength)
}

// DescriptionStatus grades the description length against MaxDescriptionLength.
func (o MetaOption) DescriptionStatus() LengthStatus {
	return GradeLength(o.MetaDescriptionLength, MaxDescriptionLength)
}

// SeoResponse holds the marketing-angle and SEO-angle suggestions.
type SeoResponse struct {
	Option1 MetaOption `json:"option_1"`
	Option2 MetaOption `json:"option_2"`
}

// CharCount counts characters as Unicode code points.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// LengthStatus is how close a count sits to its limit.
type LengthStatus string

const (
	LengthOK   LengthStatus = "ok"
	LengthNear LengthStatus = "near"
	LengthOver LengthStatus = "over"
)

// GradeLength grades current against max.
func GradeLength(current, max int) LengthStatus {
	switch {
	case current > max:
		return LengthOver
	case current >= max-nearLimitMargin:
		return LengthNear
	default:
		return LengthOK
	}
}

// PageSnapshot is what was read from the live page before prompting.
type PageSnapshot struct {
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	MetaDescription string    `json:"meta_description"`
	Canonical       string    `json:"canonical,omitempty"`
	Language        string    `json:"language,omitempty"`
	Headings        []string  `json:"headings"`
	Text            string    `json:"text"`
	FetchedAt       time.Time `json:"fetched_at"`
}
