package catalog

import (
	"fmt"
	"strings"
)

// Kind is a request kind. Each kind has its own vocabulary.
type Kind string

const (
	KindChart   Kind = "chart"
	KindPrice   Kind = "price"
	KindDetail  Kind = "detail"
	KindHeatmap Kind = "heatmap"
	KindDepth   Kind = "depth"
	KindAlert   Kind = "alert"
)

var kinds = []Kind{KindChart, KindPrice, KindDetail, KindHeatmap, KindDepth, KindAlert}

// Kinds lists every request kind.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Set holds the catalog of every request kind.
type Set struct {
	catalogs map[Kind]*Catalog
}

// Default builds the built-in vocabulary.
func Default() *Set {
	return &Set{catalogs: map[Kind]*Catalog{
		KindChart: New(map[Category][]Parameter{
			CategoryTimeframe:  chartTimeframes,
			CategoryIndicator:  chartIndicators,
			CategoryChartStyle: chartStyles,
			CategoryImageStyle: chartImageStyles,
			CategoryFilter:     chartFilters,
		}),
		KindPrice: New(map[Category][]Parameter{
			CategoryFilter: priceFilters,
		}),
		KindDetail: New(nil),
		KindHeatmap: New(map[Category][]Parameter{
			CategoryTimeframe:  heatmapTimeframes,
			CategoryImageStyle: heatmapImageStyles,
			CategoryFilter:     heatmapFilters,
		}),
		KindDepth: New(map[Category][]Parameter{
			CategoryImageStyle: depthImageStyles,
		}),
		KindAlert: New(nil),
	}}
}

// For returns the catalog of kind. Unknown kinds get an empty catalog.
func (s *Set) For(kind Kind) *Catalog {
	if c, ok := s.catalogs[kind]; ok {
		return c
	}
	return New(nil)
}

// WithOverlay returns a new set with the overlay phrases merged in.
func (s *Set) WithOverlay(o Overlay) (*Set, error) {
	out := &Set{catalogs: make(map[Kind]*Catalog, len(s.catalogs))}
	for k, c := range s.catalogs {
		out.catalogs[k] = c
	}
	for kindName, byCategory := range o.Phrases {
		kind, ok := ParseKind(kindName)
		if !ok {
			return nil, fmt.Errorf("overlay: unknown request kind %q", kindName)
		}
		extra := make(map[Category]map[string][]string, len(byCategory))
		for catName, byID := range byCategory {
			cat, ok := ParseCategory(catName)
			if !ok {
				return nil, fmt.Errorf("overlay: unknown category %q", catName)
			}
			extra[cat] = byID
		}
		merged, err := out.catalogs[kind].withPhrases(extra)
		if err != nil {
			return nil, fmt.Errorf("overlay %s: %w", kind, err)
		}
		out.catalogs[kind] = merged
	}
	return out, nil
}

// ParseCategory accepts the display name with spaces, underscores or dashes.
func ParseCategory(s string) (Category, bool) {
	norm := strings.NewReplacer("_", " ", "-", " ").Replace(strings.ToLower(strings.TrimSpace(s)))
	for c, name := range categoryNames {
		if name == norm {
			return c, true
		}
	}
	return 0, false
}
