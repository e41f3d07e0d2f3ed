package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"shelf/internal/collection"
)

const (
	activeSymbol   = "◆"
	completeSymbol = "◇"
	separator      = " · "
	borderTop      = "┌"
	borderSide     = "│"
	borderBottom   = "└"
)

func WizardTheme() *huh.Theme {
	t := huh.ThemeBase()
	red := lipgloss.Color("1")
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.SetString("✗").Foreground(red)
	t.Blurred.ErrorMessage = t.Blurred.ErrorMessage.SetString("✗").Foreground(red)
	return t
}

type Field struct {
	Label    string
	Value    string
	Optional bool
}

// ItemFields lists the editable fields of item in form order.
func ItemFields(item collection.Item) []Field {
	return []Field{
		{Label: "Name", Value: item.Name},
		{Label: "Series", Value: item.Series, Optional: true},
		{Label: "Number", Value: item.Number, Optional: true},
		{Label: "Barcode", Value: item.Barcode, Optional: true},
		{Label: "Purchase price", Value: item.PurchasePrice, Optional: true},
		{Label: "Image", Value: item.ImageRef, Optional: true},
		{Label: "Notes", Value: item.Notes, Optional: true},
	}
}

func validateFormName(name string) error {
	err := collection.ValidateName(name)
	if errors.Is(err, collection.ErrEmptyName) {
		return errors.New("Name cannot be empty")
	}
	return err
}

// NewItemForm builds an interactive form that edits item in place. Fields
// already set on item are offered as defaults.
func NewItemForm(title string, item *collection.Item) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description(title).
				Value(&item.Name).
				Validate(validateFormName),
			huh.NewInput().Title("Series").Value(&item.Series),
			huh.NewInput().Title("Number").Value(&item.Number),
		),
		huh.NewGroup(
			huh.NewInput().Title("Barcode").Value(&item.Barcode),
			huh.NewInput().Title("Purchase price").Value(&item.PurchasePrice),
			huh.NewInput().Title("Image").Description("Path or URL of a photo").Value(&item.ImageRef),
			huh.NewText().Title("Notes").Value(&item.Notes),
		),
	).WithTheme(WizardTheme())
}

// TrimItem strips surrounding whitespace from every text field.
func TrimItem(item collection.Item) collection.Item {
	item.Name = strings.TrimSpace(item.Name)
	item.Series = strings.TrimSpace(item.Series)
	item.Number = strings.TrimSpace(item.Number)
	item.Barcode = strings.TrimSpace(item.Barcode)
	item.PurchasePrice = strings.TrimSpace(item.PurchasePrice)
	item.ImageRef = strings.TrimSpace(item.ImageRef)
	item.Notes = strings.TrimSpace(item.Notes)
	return item
}

func borderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
}

func RenderWizard(title string, fields []Field, activeIdx int) string {
	var b strings.Builder

	border := borderStyle()

	b.WriteString(border.Render(borderTop))
	b.WriteString(" ")
	b.WriteString(title)
	b.WriteString("\n")

	b.WriteString(border.Render(borderSide))
	b.WriteString("\n")

	for i, f := range fields {
		active := i == activeIdx
		if f.Value != "" || active {
			b.WriteString(renderField(f, active))
			b.WriteString("\n")
		}
	}

	if activeIdx >= 0 && activeIdx < len(fields) {
		b.WriteString(border.Render(borderSide))
		b.WriteString("\n")
	}

	b.WriteString(border.Render(borderBottom))
	b.WriteString("\n")

	return b.String()
}

func renderField(f Field, active bool) string {
	var b strings.Builder

	if active {
		b.WriteString(activeSymbol)
		b.WriteString(" ")
		b.WriteString(f.Label)
		if f.Optional {
			b.WriteString(" (optional)")
		}
	} else {
		b.WriteString(completeSymbol)
		b.WriteString(" ")
		b.WriteString(f.Label)
		b.WriteString(separator)
		b.WriteString(f.Value)
	}

	return b.String()
}
