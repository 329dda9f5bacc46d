package termview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pbaille/liftlog/internal/calendar"
	"github.com/pbaille/liftlog/internal/domain"
	"github.com/pbaille/liftlog/internal/htmlview"
)

const cellWidth = 4

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Width(cellWidth).
			Align(lipgloss.Right)

	dayStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Right)

	highlightStyle = dayStyle.
			Bold(true).
			Foreground(lipgloss.Color("#04B575"))

	typeStyle = lipgloss.NewStyle().Bold(true)

	notesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			PaddingLeft(4)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)
)

// Month draws the calendar grid with highlighted days marked
func Month(v calendar.MonthView) string {
	var rows []string
	rows = append(rows, titleStyle.Render(fmt.Sprintf("%s %d", v.Name, v.Year)))

	headers := make([]string, len(calendar.Weekdays))
	for i, name := range calendar.Weekdays {
		headers[i] = headerStyle.Render(name)
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, headers...))

	for _, week := range v.Weeks() {
		cells := make([]string, len(week))
		for i, c := range week {
			switch {
			case c.Blank():
				cells[i] = dayStyle.Render("")
			case c.Highlighted:
				cells[i] = highlightStyle.Render(strconv.Itoa(c.Day) + "*")
			default:
				cells[i] = dayStyle.Render(strconv.Itoa(c.Day))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Day lists the exercises logged on day
func Day(day domain.Date, items []domain.Exercise) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Exercises on " + day.String()))
	sb.WriteString("\n")

	if len(items) == 0 {
		sb.WriteString("No exercises logged for this date.\n")
		return sb.String()
	}

	for _, e := range items {
		fmt.Fprintf(&sb, "%d  %s: %s kgs, %d sets, %d reps\n",
			e.ID, typeStyle.Render(e.Type), htmlview.FormatWeight(e.Weight), e.Sets, e.Reps)
		sb.WriteString(notesStyle.Render(htmlview.NotesOrDefault(e.Notes)))
		sb.WriteString("\n")
	}
	return sb.String()
}
