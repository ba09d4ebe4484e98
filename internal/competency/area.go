package competency

// Area is one competency in the assessment catalog.
type Area string

const (
	Leadership     Area = "Leadership & Management"
	EmotionalIQ    Area = "Emotional Intelligence & Professionalism"
	Communication  Area = "Communication & Interpersonal Skills"
	CustomerFocus  Area = "Customer Experience & Customer Focus"
	Execution      Area = "Execution & Results Orientation"
	Innovation     Area = "Innovation & Continuous Improvement"
	DigitalFluency Area = "Digital Fluency"
)

// DefaultAreas returns the standard competency areas in visiting order.
func DefaultAreas() []Area {
	return []Area{
		Leadership,
		EmotionalIQ,
		Communication,
		CustomerFocus,
		Execution,
		Innovation,
		DigitalFluency,
	}
}

// String returns the display name of the area.
func (a Area) String() string { return string(a) }

// Catalog is an ordered, duplicate-free, non-empty set of areas. The zero
// value is not usable; construct with NewCatalog or Default.
type Catalog struct {
	areas []Area
	index map[Area]int
}

// NewCatalog validates areas and returns a catalog that visits them in the
// given order.
func NewCatalog(areas []Area) (Catalog, error) {
	if err := validateAreas(areas); err != nil {
		return Catalog{}, err
	}
	c := Catalog{
		areas: append([]Area(nil), areas...),
		index: make(map[Area]int, len(areas)),
	}
	for i, a := range c.areas {
		c.index[a] = i
	}
	return c, nil
}

// Default returns the catalog of the seven standard areas.
func Default() Catalog {
	c, err := NewCatalog(DefaultAreas())
	if err != nil {
		panic("competency: default catalog invalid: " + err.Error())
	}
	return c
}

// FromNames builds a catalog from plain strings, as read from config.
func FromNames(names []string) (Catalog, error) {
	areas := make([]Area, len(names))
	for i, n := range names {
		areas[i] = Area(n)
	}
	return NewCatalog(areas)
}

// Areas returns a copy of the areas in visiting order.
func (c Catalog) Areas() []Area {
	return append([]Area(nil), c.areas...)
}

// Names returns the display names in visiting order.
func (c Catalog) Names() []string {
	out := make([]string, len(c.areas))
	for i, a := range c.areas {
		out[i] = string(a)
	}
	return out
}

// Len returns the number of areas.
func (c Catalog) Len() int { return len(c.areas) }

// First returns the first area to visit.
func (c Catalog) First() Area { return c.areas[0] }

// Last returns the final area of the catalog.
func (c Catalog) Last() Area { return c.areas[len(c.areas)-1] }

// Contains reports whether a is a member.
func (c Catalog) Contains(a Area) bool {
	_, ok := c.index[a]
	return ok
}

// IndexOf returns the position of a, or -1.
func (c Catalog) IndexOf(a Area) int {
	if i, ok := c.index[a]; ok {
		return i
	}
	return -1
}

// Next returns the area after a. ok is false when a is last or unknown.
func (c Catalog) Next(a Area) (Area, bool) {
	i, found := c.index[a]
	if !found || i+1 >= len(c.areas) {
		return "", false
	}
	return c.areas[i+1], true
}
