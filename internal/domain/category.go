package domain

import (
	"fmt"
	"slices"
	"strings"
)

// CategoryID identifies one of the fixed deed categories.
type CategoryID string

const (
	Charity      CategoryID = "charity"
	Kindness     CategoryID = "kindness"
	Productivity CategoryID = "productive"
	SelfCare     CategoryID = "selfcare"
	General      CategoryID = "general"
)

// Priority is the match order used by the classifier.
// General is not listed: it is the fallback when nothing else matches.
var Priority = []CategoryID{Charity, Kindness, Productivity, SelfCare}

// Category is the semantic definition of a deed category.
//
// Presentation metadata (color, icon) is intentionally absent;
// renderers key it off ID.
type Category struct {
	// ID is the stable identifier persisted with every entry.
	ID CategoryID `json:"id" yaml:"id"`

	// Label is the human readable name.
	Label string `json:"label" yaml:"label"`

	// Points awarded for a deed of this category.
	// Copied into the entry at creation time.
	Points int `json:"points" yaml:"points"`

	// Keywords are lowercase substrings; any occurrence in the
	// lowercased deed text selects the category.
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// DefaultCategories returns the built-in category table, in priority order
// with General last.
func DefaultCategories() []Category {
	return []Category{
		{
			ID:       Charity,
			Label:    "Charity",
			Points:   50,
			Keywords: []string{"donate", "volunteer", "money", "gift", "charity", "poor", "rescue"},
		},
		{
			ID:       Kindness,
			Label:    "Kindness",
			Points:   20,
			Keywords: []string{"help", "listen", "support", "kind", "gave", "share", "friend", "love", "hug"},
		},
		{
			ID:       Productivity,
			Label:    "Productivity",
			Points:   15,
			Keywords: []string{"work", "study", "clean", "finish", "task", "project", "learn", "read", "code"},
		},
		{
			ID:       SelfCare,
			Label:    "Self Care",
			Points:   10,
			Keywords: []string{"meditate", "exercise", "run", "ran", "gym", "sleep", "water", "healthy", "walk", "yoga"},
		},
		{
			ID:     General,
			Label:  "Good Deed",
			Points: 10,
		},
	}
}

// IsKnownCategory reports whether id is one of the five categories.
func IsKnownCategory(id CategoryID) bool {
	return id == General || slices.Contains(Priority, id)
}

func (c Category) clone() Category {
	c.Keywords = slices.Clone(c.Keywords)
	return c
}

// Classifier maps free text to a Category by substring keyword matching.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	ranked   []Category // Priority order, General excluded
	fallback Category
	byID     map[CategoryID]Category
}

// NewClassifier builds a classifier from a full category table.
//
// The table must contain each of the five categories exactly once; input
// order is irrelevant, Priority decides. Keywords are lowercased and trimmed,
// and blank keywords are dropped since they would match any text.
func NewClassifier(categories []Category) (*Classifier, error) {
	byID := make(map[CategoryID]Category, len(categories))
	for _, c := range categories {
		if !IsKnownCategory(c.ID) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, c.ID)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCategory, c.ID)
		}
		c.Keywords = normalizeKeywords(c.Keywords)
		byID[c.ID] = c
	}

	fallback, ok := byID[General]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingCategory, General)
	}
	if len(fallback.Keywords) > 0 {
		return nil, ErrFallbackKeywords
	}

	ranked := make([]Category, 0, len(Priority))
	for _, id := range Priority {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingCategory, id)
		}
		ranked = append(ranked, c)
	}

	return &Classifier{ranked: ranked, fallback: fallback, byID: byID}, nil
}

// DefaultClassifier returns a classifier over DefaultCategories.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier(DefaultCategories())
	if err != nil {
		panic(err)
	}
	return c
}

// Classify returns the first category in priority order with a keyword
// contained in text, or General. It never fails.
//
// Matching is plain substring search: "run" matches "running".
func (c *Classifier) Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, cat := range c.ranked {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return cat.clone()
			}
		}
	}
	return c.fallback.clone()
}

// Lookup returns the category definition for id.
func (c *Classifier) Lookup(id CategoryID) (Category, bool) {
	cat, ok := c.byID[id]
	if !ok {
		return Category{}, false
	}
	return cat.clone(), true
}

// Categories returns every category in priority order, General last.
func (c *Classifier) Categories() []Category {
	out := make([]Category, 0, len(c.ranked)+1)
	for _, cat := range c.ranked {
		out = append(out, cat.clone())
	}
	return append(out, c.fallback.clone())
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, kw := range in {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || slices.Contains(out, kw) {
			continue
		}
		out = append(out, kw)
	}
	return out
}
