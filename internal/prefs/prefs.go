package prefs

import (
	"errors"
	"fmt"
)

// Key names the single persisted preferences entry.
const Key = "shelf_display_options"

type SortOrder string

const (
	SortByName   SortOrder = "name"
	SortByNumber SortOrder = "number"
)

var ErrInvalidSortOrder = errors.New("invalid sort order")

func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortByName, SortByNumber:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("%w: %q (want name or number)", ErrInvalidSortOrder, s)
}

type Preferences struct {
	GroupBySeries bool      `json:"groupBySeries"`
	CompactMode   bool      `json:"compactMode"`
	SortOrder     SortOrder `json:"sortOrder"`
}

func Defaults() Preferences {
	return Preferences{
		GroupBySeries: true,
		CompactMode:   false,
		SortOrder:     SortByName,
	}
}

func (p Preferences) Validate() error {
	_, err := ParseSortOrder(string(p.SortOrder))
	return err
}
