package shopping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	t.Run("DedupesIngredientsCaseInsensitively", func(t *testing.T) {
		items := Derive([]string{"Rice", "rice", "Beans"}, nil, Overlay{})

		assert.Equal(t, []Item{
			{Name: "rice", Completed: false},
			{Name: "beans", Completed: false},
		}, items)
	})

	t.Run("ManualItemWinsIdentity", func(t *testing.T) {
		manual := []ManualItem{{Name: "Milk"}}
		overlay := Overlay{}

		items := Derive([]string{"milk", "Eggs"}, manual, overlay)
		assert.Equal(t, []Item{{Name: "Milk"}, {Name: "eggs"}}, items)

		overlay.Toggle("milk")
		items = Derive([]string{"milk", "Eggs"}, manual, overlay)
		assert.Equal(t, []Item{{Name: "Milk", Completed: true}, {Name: "eggs"}}, items)
	})

	t.Run("ManualFirstInInsertionOrder", func(t *testing.T) {
		manual := []ManualItem{{Name: "Paper Towels"}, {Name: "Coffee"}}

		items := Derive([]string{"onion", "garlic", "Onion"}, manual, Overlay{"garlic": true})
		assert.Equal(t, []Item{
			{Name: "Paper Towels"},
			{Name: "Coffee"},
			{Name: "onion"},
			{Name: "garlic", Completed: true},
		}, items)
	})

	t.Run("NoDuplicateNames", func(t *testing.T) {
		manual := []ManualItem{{Name: "Salt"}, {Name: "SALT"}}
		items := Derive([]string{"salt", "Salt", "pepper"}, manual, Overlay{})

		seen := map[string]bool{}
		for _, it := range items {
			key := Normalize(it.Name)
			assert.False(t, seen[key], "duplicate entry %q", it.Name)
			seen[key] = true
		}
		assert.Len(t, items, 2)
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, Derive(nil, nil, nil))
	})
}

func TestOverlayToggle(t *testing.T) {
	o := Overlay{}

	assert.True(t, o.Toggle("Milk"))
	assert.True(t, o.Completed("milk"))
	assert.False(t, o.Toggle("MILK"))
	assert.False(t, o.Completed("Milk"))
	assert.Equal(t, Overlay{"milk": false}, o)
}

func TestSortForDisplay(t *testing.T) {
	items := []Item{{Name: "onion"}, {Name: "Apples"}, {Name: "banana"}}

	sorted := SortForDisplay(items)
	assert.Equal(t, []string{"Apples", "banana", "onion"}, []string{sorted[0].Name, sorted[1].Name, sorted[2].Name})
	assert.Equal(t, "onion", items[0].Name, "input must not be reordered")
}

func TestEncodeDecode(t *testing.T) {
	t.Run("CompletedMirrorsOverlay", func(t *testing.T) {
		stored := Encode([]ManualItem{{Name: "Milk", Notes: "oat"}, {Name: "Bread"}}, Overlay{"milk": true})

		assert.Equal(t, []StoredItem{
			{Name: "Milk", Completed: true, Notes: "oat"},
			{Name: "Bread", Completed: false},
		}, stored)
	})

	t.Run("LegacyFlagMigratesIntoOverlay", func(t *testing.T) {
		overlay := Overlay{}
		manual := Decode([]StoredItem{{Name: "Milk", Completed: true}}, overlay)

		assert.Equal(t, []ManualItem{{Name: "Milk"}}, manual)
		assert.True(t, overlay.Completed("milk"))
	})

	t.Run("OverlayWinsOverLegacyFlag", func(t *testing.T) {
		overlay := Overlay{"milk": false}
		Decode([]StoredItem{{Name: "Milk", Completed: true}}, overlay)

		assert.False(t, overlay.Completed("milk"))
	})

	t.Run("DropsEmptyAndDuplicateNames", func(t *testing.T) {
		manual := Decode([]StoredItem{{Name: ""}, {Name: "Eggs"}, {Name: "eggs"}}, Overlay{})
		assert.Equal(t, []ManualItem{{Name: "Eggs"}}, manual)
	})
}
