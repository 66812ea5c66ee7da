// Package dashboard renders report dashboards for display. Renderers are
// pure: they read the built dashboards and write to the given writer.
package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"salesdash/pkg/report"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

const title = "Sales Dashboard"

// chartWidth is the bar length of the largest day in the daily revenue chart.
const chartWidth = 40

// Panel is one dataset tab. Exactly one of Dashboard and Err is set.
type Panel struct {
	Dataset   string
	Dashboard *report.Dashboard
	Err       error
}

// Renderer writes a set of panels.
type Renderer interface {
	Render(w io.Writer, panels []Panel) error
}

// NewRenderer returns the renderer for an output format.
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return TextRenderer{}, nil
	case FormatJSON:
		return JSONRenderer{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// TextRenderer prints aligned tables, one section per dataset.
type TextRenderer struct{}

func (TextRenderer) Render(w io.Writer, panels []Panel) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p := &printer{w: tw}

	p.line(title)
	p.line(strings.Repeat("=", len(title)))
	for _, panel := range panels {
		p.line("")
		p.linef("[%s]", panel.Dataset)
		if panel.Err != nil {
			p.line("no data")
			p.linef("error:\t%v", panel.Err)
			continue
		}
		writeSections(p, panel.Dashboard)
	}

	if p.err != nil {
		return p.err
	}
	return tw.Flush()
}

func writeSections(p *printer, d *report.Dashboard) {
	p.line("")
	p.linef("1 - Top %d revenue", len(d.TopRevenueDays))
	if len(d.TopRevenueDays) == 0 {
		p.line("no dated orders")
	}
	for _, day := range d.TopRevenueDays {
		p.linef("  %s\t%s", day.Date, money(day.Revenue))
	}

	p.line("")
	p.line("2 - Number of unique users")
	p.linef("  %s", humanize.Comma(int64(d.UniqueUsers)))

	p.line("")
	p.line("3 - Number of unique authors sets")
	p.linef("  %s", humanize.Comma(int64(d.UniqueAuthorSets)))

	p.line("")
	p.line("4 - Most popular author")
	if d.MostPopularAuthor == nil {
		p.line("  none")
	} else {
		p.linef("  %s\t%s sold", d.MostPopularAuthor.Key(), quantity(d.MostPopularAuthor.Quantity))
	}

	p.line("")
	p.line("5 - Greatest spending user")
	p.line("  user_id\tunique_user_id\tspent")
	for _, u := range d.BestSpendingUsers {
		p.linef("  %s\t%d\t%s", u.UserID, u.UniqueUserID, money(u.Spent))
	}

	p.line("")
	p.line("6 - Daily revenue")
	peak := 0.0
	for _, day := range d.DailyRevenue {
		if day.Revenue > peak {
			peak = day.Revenue
		}
	}
	for _, day := range d.DailyRevenue {
		p.linef("  %s\t%s\t%s", day.Date, money(day.Revenue), bar(day.Revenue, peak))
	}

	if d.CurrencyFallbacks > 0 || d.QuantityFallbacks > 0 {
		p.line("")
		p.linef("note: %d unit prices and %d quantities could not be parsed and count as 0",
			d.CurrencyFallbacks, d.QuantityFallbacks)
	}
}

func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func quantity(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

func bar(v, peak float64) string {
	if peak <= 0 || v <= 0 {
		return ""
	}
	n := int(v / peak * chartWidth)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", n)
}

// printer keeps the first write error so sections can be written without
// checking every line.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s+"\n")
}

func (p *printer) linef(format string, args ...any) {
	p.line(fmt.Sprintf(format, args...))
}

// JSONRenderer writes the panels as one JSON document.
type JSONRenderer struct {
	Indent bool
}

type jsonPanel struct {
	Dataset   string            `json:"dataset"`
	Dashboard *report.Dashboard `json:"dashboard,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type jsonDocument struct {
	Title    string      `json:"title"`
	Datasets []jsonPanel `json:"datasets"`
}

func (r JSONRenderer) Render(w io.Writer, panels []Panel) error {
	doc := jsonDocument{Title: title, Datasets: make([]jsonPanel, 0, len(panels))}
	for _, panel := range panels {
		jp := jsonPanel{Dataset: panel.Dataset, Dashboard: panel.Dashboard}
		if panel.Err != nil {
			jp.Dashboard = nil
			jp.Error = panel.Err.Error()
		}
		doc.Datasets = append(doc.Datasets, jp)
	}

	enc := json.NewEncoder(w)
	if r.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode dashboard: %w", err)
	}
	return nil
}
