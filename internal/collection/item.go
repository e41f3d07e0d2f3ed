package collection

import (
	"strings"
	"time"
)

type Item struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Series        string    `json:"series,omitempty"`
	Number        string    `json:"number,omitempty"`
	Barcode       string    `json:"barcode,omitempty"`
	ImageRef      string    `json:"imageRef,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	PurchasePrice string    `json:"purchasePrice,omitempty"`
	DateAdded     time.Time `json:"dateAdded"`
}

func NewItem(name string) Item {
	return Item{Name: name}
}

func (i Item) WithSeries(series string) Item {
	newI := i
	newI.Series = series
	return newI
}

func (i Item) WithNumber(number string) Item {
	newI := i
	newI.Number = number
	return newI
}

func (i Item) WithBarcode(barcode string) Item {
	newI := i
	newI.Barcode = barcode
	return newI
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Err: ErrEmptyName}
	}
	return nil
}

// Validate checks the rules callers enforce before Add or Update.
// Stores do not call it.
func (i Item) Validate() error {
	return ValidateName(i.Name)
}
