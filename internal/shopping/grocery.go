// Package shopping derives the grocery list from planned recipes and manual
// entries, and tracks which entries have been checked off.
package shopping

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Item is one entry of the derived grocery list.
type Item struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// ManualItem is a grocery entry the user added directly. Its completion state
// lives in the Overlay like every other entry.
type ManualItem struct {
	Name  string
	Notes string
}

// Normalize returns the comparison key for an item or ingredient name.
func Normalize(name string) string {
	return strings.ToLower(name)
}

// Overlay maps normalized names to their checked-off state. It is the single
// source of truth for completion, for manual and derived entries alike.
type Overlay map[string]bool

// Completed reports whether name is checked off. Unknown names are not.
func (o Overlay) Completed(name string) bool {
	return o[Normalize(name)]
}

// Toggle flips name and returns the new state.
func (o Overlay) Toggle(name string) bool {
	key := Normalize(name)
	o[key] = !o[key]
	return o[key]
}

// Clone returns an independent copy.
func (o Overlay) Clone() Overlay {
	c := make(Overlay, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// ContainsManual reports whether manual already holds name, ignoring case.
func ContainsManual(manual []ManualItem, name string) bool {
	key := Normalize(name)
	for _, m := range manual {
		if Normalize(m.Name) == key {
			return true
		}
	}
	return false
}

// Derive builds the grocery list: manual items first in insertion order,
// then each planned ingredient (lowercased, first occurrence wins) that no
// manual item already covers. Completion comes from the overlay.
func Derive(ingredients []string, manual []ManualItem, overlay Overlay) []Item {
	seen := make(map[string]struct{}, len(manual)+len(ingredients))
	items := make([]Item, 0, len(manual)+len(ingredients))

	for _, m := range manual {
		key := Normalize(m.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, Item{Name: m.Name, Completed: overlay.Completed(m.Name)})
	}

	for _, ing := range ingredients {
		key := Normalize(ing)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, Item{Name: key, Completed: overlay.Completed(key)})
	}

	return items
}

// SortForDisplay returns a copy of items ordered alphabetically using
// English collation rules.
func SortForDisplay(items []Item) []Item {
	sorted := append([]Item(nil), items...)
	c := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(sorted, func(i, j int) bool {
		return c.CompareString(sorted[i].Name, sorted[j].Name) < 0
	})
	return sorted
}
