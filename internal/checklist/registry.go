package checklist

import (
	"fmt"
	"sort"
)

// Item is one checklist entry. Items are immutable once registered.
type Item struct {
	Category string `json:"category"`
	ID       string `json:"id"`
	Text     string `json:"item"`
}

// Registry is the fixed, ordered checklist catalog. It is read-only after
// construction and safe to share across concurrent review runs.
type Registry struct {
	items []Item
	byID  map[string]Item
}

// New builds a registry from items in registration order. A duplicate ID is
// an invariant violation: exact-match reconciliation depends on ID
// uniqueness, so construction fails rather than degrading.
func New(items []Item) (*Registry, error) {
	byID := make(map[string]Item, len(items))
	for _, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("checklist item %q has empty id", it.Text)
		}
		if _, dup := byID[it.ID]; dup {
			return nil, fmt.Errorf("duplicate checklist id %s", it.ID)
		}
		byID[it.ID] = it
	}
	return &Registry{items: append([]Item(nil), items...), byID: byID}, nil
}

// MustNew panics on a duplicate ID. Intended for the built-in catalog, where
// a duplicate is a programming error caught at startup.
func MustNew(items []Item) *Registry {
	r, err := New(items)
	if err != nil {
		panic(err)
	}
	return r
}

// Items returns the catalog in registration order.
func (r *Registry) Items() []Item {
	return append([]Item(nil), r.items...)
}

func (r *Registry) Len() int { return len(r.items) }

func (r *Registry) Lookup(id string) (Item, bool) {
	it, ok := r.byID[id]
	return it, ok
}

// GroupStrategy selects the review granularity.
type GroupStrategy string

const (
	// StrategySingle reviews the whole checklist in one batch.
	StrategySingle GroupStrategy = "single"
	// StrategySplit reviews A,B in one batch and C..F in another.
	StrategySplit GroupStrategy = "split"
	// StrategyPerItem reviews every item individually, in canonical order.
	StrategyPerItem GroupStrategy = "per-item"
)

type Group struct {
	Label string
	Items []Item
}

// Group partitions the catalog per the strategy. Pure function; empty groups
// are omitted.
func (r *Registry) Group(strategy GroupStrategy) ([]Group, error) {
	switch strategy {
	case StrategySingle:
		if len(r.items) == 0 {
			return nil, nil
		}
		return []Group{{Label: "ABCDEF", Items: r.Items()}}, nil
	case StrategySplit:
		var ab, rest []Item
		for _, it := range r.items {
			if it.ID[0] == 'A' || it.ID[0] == 'B' {
				ab = append(ab, it)
			} else {
				rest = append(rest, it)
			}
		}
		var groups []Group
		if len(ab) > 0 {
			groups = append(groups, Group{Label: "AB", Items: ab})
		}
		if len(rest) > 0 {
			groups = append(groups, Group{Label: "CDEF", Items: rest})
		}
		return groups, nil
	case StrategyPerItem:
		ordered := SortItems(r.Items())
		groups := make([]Group, 0, len(ordered))
		for _, it := range ordered {
			groups = append(groups, Group{Label: it.ID, Items: []Item{it}})
		}
		return groups, nil
	default:
		return nil, fmt.Errorf("unknown group strategy %q", strategy)
	}
}

// SortItems returns items in canonical order (letter rank, numeric major,
// numeric minor, raw id). The input slice is not modified.
func SortItems(items []Item) []Item {
	out := append([]Item(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return KeyFor(out[i].ID).Less(KeyFor(out[j].ID))
	})
	return out
}
