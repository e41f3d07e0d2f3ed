package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"shelf/internal/collection"
	"shelf/internal/view"
)

const detailSeparator = " · "

type LipglossRenderer struct {
	width int
	now   func() time.Time
	r     *lipgloss.Renderer

	nameStyle       lipgloss.Style
	idStyle         lipgloss.Style
	detailStyle     lipgloss.Style
	notesStyle      lipgloss.Style
	timeStyle       lipgloss.Style
	recentTimeStyle lipgloss.Style
	groupStyle      lipgloss.Style
	labelStyle      lipgloss.Style
	summaryStyle    lipgloss.Style
}

func NewLipglossRenderer(w io.Writer, width int) *LipglossRenderer {
	r := lipgloss.NewRenderer(w)
	return &LipglossRenderer{
		width:           width,
		now:             time.Now,
		r:               r,
		nameStyle:       r.NewStyle().Bold(true),
		idStyle:         r.NewStyle().Faint(true),
		detailStyle:     r.NewStyle().Faint(true),
		notesStyle:      r.NewStyle(),
		timeStyle:       r.NewStyle().Faint(true),
		recentTimeStyle: r.NewStyle().Foreground(lipgloss.Color("10")),
		groupStyle:      r.NewStyle().Bold(true).Underline(true),
		labelStyle:      r.NewStyle().Faint(true),
		summaryStyle:    r.NewStyle().Faint(true),
	}
}

func NewLipglossRendererAuto(w io.Writer) *LipglossRenderer {
	width := 80
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(f.Fd()); err == nil && tw > 0 {
			width = tw
		}
	}
	return NewLipglossRenderer(w, width)
}

func (r *LipglossRenderer) WithClock(now func() time.Time) *LipglossRenderer {
	r.now = now
	return r
}

func (r *LipglossRenderer) RenderCollection(v CollectionView) string {
	if v.Total == 0 {
		return "Your collection is empty.\n"
	}
	if v.IsEmpty() {
		return "No items found.\n"
	}

	now := r.now()
	var sb strings.Builder
	if v.Projection.Grouped {
		for i, g := range v.Projection.Groups {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(r.groupStyle.Render(fmt.Sprintf("%s (%d)", g.Key, len(g.Items))))
			sb.WriteString("\n")
			sb.WriteString(r.renderItems(g.Items, v.Compact, now))
		}
	} else {
		sb.WriteString(r.renderItems(v.Projection.Items, v.Compact, now))
	}

	if v.Filtered() {
		sb.WriteString("\n")
		sb.WriteString(r.summaryStyle.Render(fmt.Sprintf("%d of %d items match %q", v.Projection.Len(), v.Total, v.Query)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *LipglossRenderer) renderItems(items []collection.Item, compact bool, now time.Time) string {
	var sb strings.Builder
	for i, item := range items {
		if compact {
			sb.WriteString(r.renderCompact(item))
			continue
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.renderFull(item, now))
	}
	return sb.String()
}

func (r *LipglossRenderer) title(item collection.Item) string {
	return r.idStyle.Render(fmt.Sprintf("[%d]", item.ID)) + " " + r.nameStyle.Render(item.Name)
}

func (r *LipglossRenderer) alignRight(left, right string) string {
	if right == "" {
		return left
	}
	padding := max(1, r.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", padding) + right
}

func (r *LipglossRenderer) renderCompact(item collection.Item) string {
	var number string
	if item.Number != "" {
		number = r.detailStyle.Render("#" + item.Number)
	}
	return r.alignRight(r.title(item), number) + "\n"
}

func (r *LipglossRenderer) renderFull(item collection.Item, now time.Time) string {
	timeStyle := r.timeStyle
	if !item.DateAdded.IsZero() && now.Sub(item.DateAdded) < time.Hour {
		timeStyle = r.recentTimeStyle
	}
	timeEl := timeStyle.Render(r.formatTime(item.DateAdded, now))

	lines := []string{r.alignRight(r.title(item), timeEl)}
	if detail := details(item); detail != "" {
		lines = append(lines, r.detailStyle.Render("  "+detail))
	}
	if item.Notes != "" {
		lines = append(lines, r.notesStyle.Render("  "+firstLine(item.Notes)))
	}
	return strings.Join(lines, "\n") + "\n"
}

func details(item collection.Item) string {
	var parts []string
	if item.Number != "" {
		parts = append(parts, "#"+item.Number)
	}
	if item.Series != "" {
		parts = append(parts, item.Series)
	}
	if item.PurchasePrice != "" {
		parts = append(parts, item.PurchasePrice)
	}
	return strings.Join(parts, detailSeparator)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// RenderItem renders every field of item, one per line. Empty fields are
// omitted except the name.
func (r *LipglossRenderer) RenderItem(item collection.Item) string {
	series := item.Series
	if series == "" {
		series = view.UnknownSeries
	}
	rows := [][2]string{
		{"ID", fmt.Sprintf("%d", item.ID)},
		{"Name", item.Name},
		{"Series", series},
		{"Number", item.Number},
		{"Price", item.PurchasePrice},
		{"Barcode", item.Barcode},
		{"Image", item.ImageRef},
		{"Added", r.formatTime(item.DateAdded, r.now())},
		{"Notes", item.Notes},
	}

	var sb strings.Builder
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		sb.WriteString(r.labelStyle.Render(fmt.Sprintf("%-8s", row[0]+":")))
		sb.WriteString(" ")
		sb.WriteString(strings.ReplaceAll(row[1], "\n", "\n"+strings.Repeat(" ", 9)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *LipglossRenderer) formatTime(t, now time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}

	t = t.In(now.Location())
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	target := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	days := int(today.Sub(target).Hours() / 24)

	timeStr := t.Format("15:04")

	switch {
	case days == 0:
		return timeStr
	case days == 1:
		return "Yesterday " + timeStr
	case days < 7:
		return t.Format("Mon") + " " + timeStr
	case t.Year() == now.Year():
		return t.Format("Jan 2") + " " + timeStr
	default:
		return t.Format("Jan 2 '06") + " " + timeStr
	}
}
