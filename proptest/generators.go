package proptest

import (
	"strings"

	"pgregory.net/rapid"

	"shelf/internal/collection"
	"shelf/internal/prefs"
)

var (
	shortQueryGen = rapid.StringMatching(`[a-z0-9]{1,3}`)
	queryGen      = rapid.StringMatching(`[a-zA-Z0-9 ]{0,8}`)
	priceGen      = rapid.StringMatching(`\$[0-9]{1,3}\.[0-9]{2}`)
	barcodeGen    = rapid.StringMatching(`[0-9]{12}`)
)

var brandWords = map[string]bool{"funko": true, "vinyl": true, "figure": true, "pop": true}

// wordGen draws capitalised words that the name normalizer leaves alone.
func wordGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Z][a-z]{2,8}`).Filter(func(w string) bool {
		return !brandWords[strings.ToLower(w)]
	})
}

// cleanTitleGen draws a figure name with no label, brand words or extra
// whitespace.
func cleanTitleGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		words := rapid.SliceOfN(wordGen(), 1, 4).Draw(t, "words")
		return strings.Join(words, " ")
	})
}

// decoratedTitleGen wraps a clean name the way retail listings do and
// returns both.
func decoratedTitleGen() *rapid.Generator[[2]string] {
	return rapid.Custom(func(t *rapid.T) [2]string {
		clean := cleanTitleGen().Draw(t, "clean")
		label := wordGen().Draw(t, "label")
		title := rapid.SampledFrom([]string{
			"Funko Pop! " + label + ": " + clean,
			label + ": " + clean + " Vinyl Figure",
			label + ":   Funko POP " + clean,
			"Pop! " + label + ":" + clean + " Figure",
		}).Draw(t, "shape")
		return [2]string{title, clean}
	})
}

func nameGen() *rapid.Generator[string] {
	return rapid.OneOf(
		cleanTitleGen(),
		rapid.StringMatching(`[a-zA-Z0-9][a-zA-Z0-9 '()-]{0,30}`),
		rapid.SampledFrom([]string{"Darth Vader", "Pikachu", "Groot", "Baby Yoda (Grogu)", "Señor Ñandú", "ピカチュウ"}),
	)
}

func seriesGen() *rapid.Generator[string] {
	return rapid.SampledFrom([]string{"", "", "Star Wars", "Pokemon", "Marvel", "Disney", "  ", "marvel"})
}

// numberGen mixes integers, decimals, blanks and non-numeric values, which
// all sort as zero.
func numberGen() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Just(""),
		rapid.StringMatching(`[0-9]{1,4}`),
		rapid.StringMatching(`[0-9]{1,2}\.[0-9]`),
		rapid.SampledFrom([]string{"abc", "NaN", " 7 ", "-3", "12a"}),
	)
}

func optional(gen *rapid.Generator[string]) *rapid.Generator[string] {
	return rapid.OneOf(rapid.Just(""), gen)
}

func itemGen() *rapid.Generator[collection.Item] {
	return rapid.Custom(func(t *rapid.T) collection.Item {
		return collection.Item{
			Name:          nameGen().Draw(t, "name"),
			Series:        seriesGen().Draw(t, "series"),
			Number:        numberGen().Draw(t, "number"),
			Barcode:       optional(barcodeGen).Draw(t, "barcode"),
			PurchasePrice: optional(priceGen).Draw(t, "price"),
			ImageRef:      optional(rapid.Just("file:///photos/item.jpg")).Draw(t, "image"),
			Notes:         optional(rapid.StringMatching(`[a-zA-Z .\n]{1,40}`)).Draw(t, "notes"),
		}
	})
}

func itemsGen(minLen, maxLen int) *rapid.Generator[[]collection.Item] {
	return rapid.Custom(func(t *rapid.T) []collection.Item {
		items := rapid.SliceOfN(itemGen(), minLen, maxLen).Draw(t, "items")
		for i := range items {
			items[i].ID = int64(i + 1)
		}
		return items
	})
}

func preferencesGen() *rapid.Generator[prefs.Preferences] {
	return rapid.Custom(func(t *rapid.T) prefs.Preferences {
		return prefs.Preferences{
			GroupBySeries: rapid.Bool().Draw(t, "group"),
			CompactMode:   rapid.Bool().Draw(t, "compact"),
			SortOrder:     rapid.SampledFrom([]prefs.SortOrder{prefs.SortByName, prefs.SortByNumber}).Draw(t, "sort"),
		}
	})
}

func malformedPrefsGen() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Just("{{{{"),
		rapid.Just(""),
		rapid.Just("null"),
		rapid.Just("[]"),
		rapid.Just(`{"groupBySeries": "yes"}`),
		rapid.Just(`{"sortOrder": "price"}`),
		rapid.Just(`{"compactMode": true`),
		rapid.StringMatching(`[^a-zA-Z0-9\s]{10,50}`),
		rapid.Custom(func(t *rapid.T) string {
			size := rapid.IntRange(1, 100).Draw(t, "size")
			bytes := make([]byte, size)
			for i := range bytes {
				bytes[i] = byte(rapid.IntRange(0, 255).Draw(t, "byte"))
			}
			return string(bytes)
		}),
	)
}
