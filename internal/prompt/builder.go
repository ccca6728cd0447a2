package prompt

import (
	"fmt"
	"strings"

	"github.com/user/seo-meta-service/internal/domain"
	"github.com/user/seo-meta-service/pkg/utils"
)

const (
	contentPlaceholder = "Not provided (Rely on URL analysis if available)."
	focusPlaceholder   = "Not provided (Focus on High CTR / Persuasive)."
	homepageNote       = "- **Context:** This URL appears to be the homepage."

	maxSnapshotHeadings = 10
	maxSnapshotExcerpt  = 1500
)

// Prompt is the instruction sent to the generator.
type Prompt struct {
	Text               string
	UseSearchGrounding bool
	RootURL            string
}

// Build turns user inputs into the generation prompt. It never fails: an
// unparsable URL only loses the root-domain hint.
func Build(in domain.AnalysisInputs) Prompt {
	return BuildWithPage(in, nil)
}

// BuildWithPage is Build plus a section describing what is currently
// published on the page. A nil page produces exactly Build's output.
func BuildWithPage(in domain.AnalysisInputs, page *domain.PageSnapshot) Prompt {
	url := in.TrimmedURL()
	p := Prompt{UseSearchGrounding: url != ""}

	var urlSection string
	if url != "" {
		p.RootURL = utils.RootURL(url)
		urlSection = urlInstructions(url, p.RootURL)
	}

	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n### INPUT DATA TO ANALYZE\n")
	b.WriteString(urlSection)
	fmt.Fprintf(&b, "\n2. **Target Page Content (Text Input):** \n%s\n", orPlaceholder(in.TargetPageContent, contentPlaceholder))
	fmt.Fprintf(&b, "\n3. **Marketing Focus:** \n%s\n", orPlaceholder(in.MarketingFocus, focusPlaceholder))
	if page != nil {
		b.WriteString(pageSection(page))
	}
	b.WriteString(constraints)
	b.WriteString(outputFormat)

	p.Text = b.String()
	return p
}

// RootDomainInstruction is the line asking the generator to inspect root.
func RootDomainInstruction(root string) string {
	return fmt.Sprintf("- **ACTION REQUIRED:** Also use Google Search to browse the root domain (%s) to understand the overall website context, brand voice, and authority.", root)
}

// HomepageNote is the line used when the URL is the site's homepage.
func HomepageNote() string {
	return homepageNote
}

func urlInstructions(url, root string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n1. **Target URL:** %s\n", url)
	b.WriteString("   - **ACTION REQUIRED:** Use Google Search to browse and analyze the content of this specific page.\n")
	if root != "" && !utils.IsRoot(url, root) {
		fmt.Fprintf(&b, "   %s\n", RootDomainInstruction(root))
	} else {
		fmt.Fprintf(&b, "   %s\n", homepageNote)
	}
	return b.String()
}

func pageSection(page *domain.PageSnapshot) string {
	var b strings.Builder
	b.WriteString("\n4. **Current Page Metadata (fetched from the live page):**\n")
	fmt.Fprintf(&b, "   - Existing title (%d characters): %s\n", domain.CharCount(page.Title), orPlaceholder(page.Title, "none"))
	fmt.Fprintf(&b, "   - Existing meta description (%d characters): %s\n", domain.CharCount(page.MetaDescription), orPlaceholder(page.MetaDescription, "none"))
	if page.Language != "" {
		fmt.Fprintf(&b, "   - Declared document language: %s\n", page.Language)
	}
	if page.Canonical != "" {
		fmt.Fprintf(&b, "   - Canonical URL: %s\n", page.Canonical)
	}
	headings := page.Headings
	if len(headings) > maxSnapshotHeadings {
		headings = headings[:maxSnapshotHeadings]
	}
	if len(headings) > 0 {
		fmt.Fprintf(&b, "   - Headings: %s\n", strings.Join(headings, " | "))
	}
	if excerpt := truncateRunes(page.Text, maxSnapshotExcerpt); excerpt != "" {
		fmt.Fprintf(&b, "   - Body excerpt: %s\n", excerpt)
	}
	return b.String()
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func truncateRunes(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
