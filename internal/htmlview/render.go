package htmlview

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pbaille/liftlog/internal/calendar"
	"github.com/pbaille/liftlog/internal/domain"
)

const style = `
body { font-family: sans-serif; margin: 2rem; }
.calendar { display: grid; grid-template-columns: repeat(7, 3rem); gap: 4px; }
.calendar-header { font-weight: bold; text-align: center; }
.calendar-cell { height: 3rem; text-align: center; line-height: 3rem; border: 1px solid #ddd; }
.calendar-cell a { display: block; color: inherit; text-decoration: none; }
.highlight { background: #4caf50; color: #fff; }
.notes-container { margin-left: 20px; list-style-type: disc; }
`

// Page is the content of one rendered calendar page
type Page struct {
	Nav   calendar.Navigation
	View  calendar.MonthView
	Day   *domain.Date
	Items []domain.Exercise
}

// Render writes a standalone HTML page for p
func Render(w io.Writer, p Page) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html)
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(withText(element(atom.Title), fmt.Sprintf("Exercises: %s %d", p.View.Name, p.View.Year)))
	head.AppendChild(withText(element(atom.Style), style))
	root.AppendChild(head)

	body := element(atom.Body)
	body.AppendChild(navigation(p.Nav))
	body.AppendChild(withText(element(atom.H2), fmt.Sprintf("%s %d", p.View.Name, p.View.Year)))
	body.AppendChild(grid(p.View))
	if p.Day != nil {
		body.AppendChild(dayDetails(*p.Day, p.Items))
	}
	root.AppendChild(body)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func navigation(nav calendar.Navigation) *html.Node {
	form := element(atom.Form, attr("method", "get"))

	years := element(atom.Select, attr("name", "year"), attr("id", "year-select"))
	for _, y := range nav.Years {
		opt := withText(element(atom.Option, attr("value", strconv.Itoa(y))), strconv.Itoa(y))
		if y == nav.SelectedYear {
			opt.Attr = append(opt.Attr, attr("selected", ""))
		}
		years.AppendChild(opt)
	}
	form.AppendChild(years)

	months := element(atom.Select, attr("name", "month"), attr("id", "month-select"))
	for _, m := range nav.Months {
		opt := withText(element(atom.Option, attr("value", strconv.Itoa(m))), calendar.MonthName(m))
		if m == nav.SelectedMonth {
			opt.Attr = append(opt.Attr, attr("selected", ""))
		}
		months.AppendChild(opt)
	}
	form.AppendChild(months)

	form.AppendChild(withText(element(atom.Button, attr("type", "submit")), "Show"))
	return form
}

func grid(v calendar.MonthView) *html.Node {
	div := element(atom.Div, attr("class", "calendar"), attr("id", "calendar"))
	for _, name := range calendar.Weekdays {
		div.AppendChild(withText(element(atom.Div, attr("class", "calendar-header")), name))
	}

	for _, c := range v.Cells {
		class := "calendar-cell"
		if c.Highlighted {
			class += " highlight"
		}
		cell := element(atom.Div, attr("class", class))
		if !c.Blank() {
			href := fmt.Sprintf("?year=%d&month=%d&date=%s", v.Year, v.Month, c.Date)
			cell.AppendChild(withText(element(atom.A, attr("href", href)), strconv.Itoa(c.Day)))
		}
		div.AppendChild(cell)
	}
	return div
}

func dayDetails(day domain.Date, items []domain.Exercise) *html.Node {
	div := element(atom.Div, attr("id", "exercise-details"))
	div.AppendChild(withText(element(atom.H3), "Exercises on "+day.String()))

	ul := element(atom.Ul)
	if len(items) == 0 {
		ul.AppendChild(withText(element(atom.Li), "No exercises logged for this date."))
	}
	for _, e := range items {
		li := element(atom.Li, attr("data-id", strconv.FormatInt(e.ID, 10)))
		li.AppendChild(withText(element(atom.Strong), e.Type))
		li.AppendChild(text(fmt.Sprintf(": %s kgs, %d sets, %d reps", FormatWeight(e.Weight), e.Sets, e.Reps)))

		notes := element(atom.Ul, attr("class", "notes-container"))
		notes.AppendChild(withText(element(atom.Li), NotesOrDefault(e.Notes)))
		li.AppendChild(notes)
		ul.AppendChild(li)
	}
	div.AppendChild(ul)
	return div
}

// FormatWeight drops a trailing ".0" from whole-number weights
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// NotesOrDefault substitutes a placeholder for blank notes
func NotesOrDefault(notes string) string {
	if strings.TrimSpace(notes) == "" {
		return "No notes for this exercise."
	}
	return notes
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(text(s))
	return n
}
