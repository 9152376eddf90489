package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
)

const (
	ruleWidth  = 80
	colWidth   = 20
	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"
)

// Renderer writes an analysis as a markdown-compatible report.
type Renderer struct {
	out    io.Writer
	styles *Styles
	local  *time.Location
}

// NewRenderer creates a renderer writing to out. A nil styles falls
// back to unstyled output.
func NewRenderer(out io.Writer, styles *Styles) *Renderer {
	if styles == nil {
		styles = PlainStyles()
	}
	return &Renderer{
		out:    out,
		styles: styles,
		local:  time.Local,
	}
}

// SetLocation overrides the local timezone used for the report.
// Useful for tests.
func (r *Renderer) SetLocation(loc *time.Location) {
	if loc != nil {
		r.local = loc
	}
}

// Render writes the full report for an analysis.
func (r *Renderer) Render(analysis *domain.Analysis) {
	r.preamble(analysis)
	r.generalInformation(analysis)
	r.httpHeaders(analysis)
	r.section("Internal images", analysis.Internal())
	r.section("External images", analysis.External())
	r.section("All images", analysis.Findings)
}

// preamble writes the pandoc title block.
func (r *Renderer) preamble(analysis *domain.Analysis) {
	fmt.Fprintln(r.out, "---")
	fmt.Fprintln(r.out, r.styles.Preamble.Render("title: Carbon14 web page analysis"))
	if analysis.Author != "" {
		fmt.Fprintln(r.out, r.styles.Preamble.Render("author: "+analysis.Author))
	}
	fmt.Fprintln(r.out, r.styles.Preamble.Render("date: "+analysis.StartedAt.Format(dateLayout)))
	fmt.Fprintln(r.out, "---")
}

// heading writes a level-two markdown heading, first sigil coloured.
func (r *Renderer) heading(title string) {
	fmt.Fprintf(r.out, "\n%s# %s\n\n", r.styles.Heading.Render("#"), title)
}

func (r *Renderer) generalInformation(analysis *domain.Analysis) {
	r.heading("General information")

	title := analysis.Title
	if title == "" {
		title = "N/A"
	}

	started := analysis.StartedAt.In(r.local)
	ended := analysis.EndedAt.In(r.local)
	zone, _ := started.Zone()

	metadata := []struct {
		label string
		value string
	}{
		{"Page URL", fmt.Sprintf("<%s>", analysis.URL)},
		{"Page title", title},
		{"Analysis started", fmt.Sprintf("%s (%s)", started.Format(timeLayout), zone)},
		{"Analysis ended", fmt.Sprintf("%s (%s)", ended.Format(timeLayout), zone)},
	}

	for _, m := range metadata {
		fmt.Fprintf(r.out, "- %s %s\n",
			r.styles.Label.Render("**"+m.label+":**"), m.value)
	}
}

func (r *Renderer) httpHeaders(analysis *domain.Analysis) {
	r.heading("HTTP headers")

	keys := make([]string, 0, len(analysis.Headers))
	for key := range analysis.Headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, value := range analysis.Headers[key] {
			fmt.Fprintf(r.out, "    %s: %s\n", key, value)
		}
	}
}

// section writes one findings table.
func (r *Renderer) section(title string, findings []domain.ImageFinding) {
	r.heading(title)

	if len(findings) == 0 {
		fmt.Fprintln(r.out, "Nothing found.")
		return
	}

	rule := strings.Repeat("-", ruleWidth)
	fmt.Fprintln(r.out, r.styles.Muted.Render(rule))
	fmt.Fprintln(r.out, r.styles.Bold.Render(
		fmt.Sprintf("%-*s %-*s %s", colWidth, "Date (UTC)", colWidth, "Date (Local)", "URL")))
	fmt.Fprintln(r.out, r.styles.Muted.Render(fmt.Sprintf("%s %s %s",
		strings.Repeat("-", colWidth),
		strings.Repeat("-", colWidth),
		strings.Repeat("-", ruleWidth-2*colWidth-2))))

	for _, f := range findings {
		fmt.Fprintf(r.out, "%-*s %-*s <%s>\n",
			colWidth, f.LastModified.UTC().Format(timeLayout),
			colWidth, f.LastModified.In(r.local).Format(timeLayout),
			f.URL)
	}

	fmt.Fprintln(r.out, r.styles.Muted.Render(rule))
}
