package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Course is a catalog record. The catalog owns these; the enrollment
// flow only reads them.
type Course struct {
	ID             int     `json:"skillId"`
	Name           string  `json:"skillName"`
	Price          float64 `json:"price"`
	ImageURL       string  `json:"image"`
	Description    string  `json:"description"`
	ProviderName   string  `json:"providerName"`
	ProviderEmail  string  `json:"providerEmail"`
	Rating         float64 `json:"rating"`
	SlotsAvailable int     `json:"slotsAvailable"`
	Category       string  `json:"category"`
}

// Fallback is the fixed placeholder served when a lookup cannot be
// satisfied. Rendering it is a degraded state, never an error.
var Fallback = Course{
	ID:          1,
	Name:        "Web Development Masterclass",
	Price:       35.00,
	ImageURL:    "https://via.placeholder.com/600x400?text=Web+Dev+Course",
	Description: "Details not loaded, but enrollment is confirmed.",
	Category:    "Technology",
}

// Catalog is the static read-only course collection, loaded once from
// a JSON file.
type Catalog struct {
	mu      sync.RWMutex
	courses map[int]Course
	order   []int
}

// Load reads the course collection at path. A missing or malformed
// source yields an empty catalog and the error for logging; lookups
// against it degrade to the fallback record, they do not fail.
func Load(path string) (*Catalog, error) {
	c := &Catalog{courses: make(map[int]Course)}

	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading catalog source: %w", err)
	}

	var courses []Course
	if err := json.Unmarshal(b, &courses); err != nil {
		return c, fmt.Errorf("decoding catalog source: %w", err)
	}

	for _, crs := range courses {
		if _, ok := c.courses[crs.ID]; ok {
			return c, fmt.Errorf("duplicate course id %d in catalog source", crs.ID)
		}
		c.courses[crs.ID] = crs
		c.order = append(c.order, crs.ID)
	}
	sort.Ints(c.order)

	return c, nil
}

// Lookup resolves a course id. Unknown ids resolve to the fallback
// record with advisory set; callers surface the advisory as a
// non-blocking message.
func (c *Catalog) Lookup(id int) (crs Course, advisory bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	crs, ok := c.courses[id]
	if !ok {
		return Fallback, true
	}
	return crs, false
}

// List returns all courses in id order.
func (c *Catalog) List() []Course {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Course, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.courses[id])
	}
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.courses)
}
