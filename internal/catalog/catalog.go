package catalog

import (
	"fmt"
	"strings"

	"alphabot/internal/domain"
)

// Category is one kind of argument a request can carry.
type Category int

const (
	CategoryTimeframe Category = iota + 1
	CategoryIndicator
	CategoryChartStyle
	CategoryImageStyle
	CategoryFilter
)

var categoryNames = map[Category]string{
	CategoryTimeframe:  "timeframe",
	CategoryIndicator:  "indicator",
	CategoryChartStyle: "chart style",
	CategoryImageStyle: "image style",
	CategoryFilter:     "filter",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Categories lists every category in token trial order.
var Categories = []Category{
	CategoryTimeframe,
	CategoryIndicator,
	CategoryChartStyle,
	CategoryImageStyle,
	CategoryFilter,
}

// Arity bounds how many trailing numeric arguments a parameter accepts.
type Arity struct {
	Min int
	Max int
}

// Parameter is a single recognized vocabulary item.
type Parameter struct {
	ID   string
	Name string
	// Group makes parameters mutually exclusive; the first one supplied wins.
	Group       string
	Phrases     []string
	Parsed      map[domain.Platform]string
	RequiresPro bool
	Dynamic     map[domain.Platform]Arity
	// Minutes orders timeframes; zero for every other category.
	Minutes int
}

// Supports reports whether the platform has a native encoding for p.
func (p Parameter) Supports(platform domain.Platform) bool {
	_, ok := p.Parsed[platform]
	return ok
}

// Native returns the platform encoding of p.
func (p Parameter) Native(platform domain.Platform) (string, bool) {
	v, ok := p.Parsed[platform]
	return v, ok
}

// Arity returns the numeric argument bounds on platform, if any.
func (p Parameter) Arity(platform domain.Platform) (Arity, bool) {
	a, ok := p.Dynamic[platform]
	return a, ok
}

// ExclusionKey is the key under which duplicates are ignored.
func (p Parameter) ExclusionKey() string {
	if p.Group != "" {
		return p.Group
	}
	return p.ID
}

// Catalog is the read-only vocabulary of one request kind.
type Catalog struct {
	lists   map[Category][]Parameter
	phrases map[Category]map[string]int
}

// New indexes lists. Within a category the first entry claiming a phrase wins.
func New(lists map[Category][]Parameter) *Catalog {
	c := &Catalog{
		lists:   make(map[Category][]Parameter, len(lists)),
		phrases: make(map[Category]map[string]int, len(lists)),
	}
	for cat, params := range lists {
		c.lists[cat] = append([]Parameter(nil), params...)
		index := make(map[string]int)
		for i, p := range params {
			for _, phrase := range p.Phrases {
				phrase = normalize(phrase)
				if _, taken := index[phrase]; !taken {
					index[phrase] = i
				}
			}
		}
		c.phrases[cat] = index
	}
	return c
}

// Lookup returns the first entry of cat whose phrases contain token.
func (c *Catalog) Lookup(cat Category, token string) (Parameter, bool) {
	if c == nil {
		return Parameter{}, false
	}
	i, ok := c.phrases[cat][normalize(token)]
	if !ok {
		return Parameter{}, false
	}
	return c.lists[cat][i], true
}

// Find returns the entry of cat with the given id.
func (c *Catalog) Find(cat Category, id string) (Parameter, bool) {
	if c == nil {
		return Parameter{}, false
	}
	for _, p := range c.lists[cat] {
		if p.ID == id {
			return p, true
		}
	}
	return Parameter{}, false
}

// List returns the entries of cat in catalog order.
func (c *Catalog) List(cat Category) []Parameter {
	if c == nil {
		return nil
	}
	return c.lists[cat]
}

// Has reports whether the catalog defines cat at all.
func (c *Catalog) Has(cat Category) bool {
	return c != nil && len(c.lists[cat]) > 0
}

// Supports reports whether param has an encoding for platform.
func Supports(param Parameter, platform domain.Platform) bool {
	return param.Supports(platform)
}

// withPhrases returns a copy of the catalog with extra phrases appended to the
// entries named in extra (category -> id -> phrases).
func (c *Catalog) withPhrases(extra map[Category]map[string][]string) (*Catalog, error) {
	lists := make(map[Category][]Parameter, len(c.lists))
	for cat, params := range c.lists {
		cp := make([]Parameter, len(params))
		copy(cp, params)
		lists[cat] = cp
	}
	for cat, byID := range extra {
		params, ok := lists[cat]
		if !ok {
			return nil, fmt.Errorf("category %s is not defined", cat)
		}
		for id, phrases := range byID {
			found := false
			for i := range params {
				if params[i].ID != id {
					continue
				}
				params[i].Phrases = append(append([]string(nil), params[i].Phrases...), phrases...)
				found = true
				break
			}
			if !found {
				return nil, fmt.Errorf("%s %q is not defined", cat, id)
			}
		}
	}
	return New(lists), nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
