package shopping

// StoredItem is the persisted form of a manual item. Completed mirrors the
// overlay so records written by older clients, which kept a per-item flag,
// stay readable.
type StoredItem struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// Encode converts manual items to their persisted form.
func Encode(manual []ManualItem, overlay Overlay) []StoredItem {
	out := make([]StoredItem, 0, len(manual))
	for _, m := range manual {
		out = append(out, StoredItem{
			Name:      m.Name,
			Completed: overlay.Completed(m.Name),
			Notes:     m.Notes,
		})
	}
	return out
}

// Decode converts persisted manual items back, moving any per-item completed
// flag that the overlay does not know about into the overlay. Entries with an
// empty name or a repeated name are dropped.
func Decode(stored []StoredItem, overlay Overlay) []ManualItem {
	out := make([]ManualItem, 0, len(stored))
	for _, s := range stored {
		if s.Name == "" || ContainsManual(out, s.Name) {
			continue
		}
		key := Normalize(s.Name)
		if _, known := overlay[key]; !known && s.Completed {
			overlay[key] = true
		}
		out = append(out, ManualItem{Name: s.Name, Notes: s.Notes})
	}
	return out
}
