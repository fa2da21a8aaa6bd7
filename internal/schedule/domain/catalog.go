package schedule

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default enumerations of the simulated network.
var (
	DefaultCarriers = []string{
		"Copa Airlines", "Latam Airlines", "Avianca", "Argentina Airlines", "Aeromexico",
		"Delta", "United Airlines", "American Airlines", "Air Canada", "Air France",
		"KLM", "Iberia Airlines", "Sky Airlines",
	}
	DefaultDestinations = []string{
		"España", "Francia", "Países Bajos", "Turquía", "Uruguay", "Ecuador",
		"Colombia", "Chile", "Brasil", "Bolivia", "Argentina", "El Salvador",
		"Panamá", "Cuba", "México", "Estados Unidos", "Canadá", "Costa Rica",
	}
	// DefaultRegionSet holds destinations flown with manufacturer class B.
	DefaultRegionSet = []string{"España", "Francia", "Países Bajos", "Turquía"}
)

// Catalog is the immutable enumeration data used for generation and classification.
type Catalog struct {
	carriers     []string
	destinations []string
	region       map[string]struct{}
}

// NewCatalog normalizes and validates catalog lists. Destinations and region
// entries are title-cased so lookups match derived records.
func NewCatalog(carriers, destinations, regionSet []string) (Catalog, error) {
	c := Catalog{region: make(map[string]struct{}, len(regionSet))}
	for _, carrier := range carriers {
		if carrier = strings.TrimSpace(carrier); carrier != "" {
			c.carriers = append(c.carriers, carrier)
		}
	}
	for _, destination := range destinations {
		if destination = TitleCase(destination); destination != "" {
			c.destinations = append(c.destinations, destination)
		}
	}
	for _, name := range regionSet {
		if name = TitleCase(name); name != "" {
			c.region[name] = struct{}{}
		}
	}
	if len(c.carriers) == 0 || len(c.destinations) == 0 {
		return Catalog{}, ErrEmptyCatalog
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() Catalog {
	c, err := NewCatalog(DefaultCarriers, DefaultDestinations, DefaultRegionSet)
	if err != nil {
		panic(err)
	}
	return c
}

// Carriers returns a copy of the carrier list.
func (c Catalog) Carriers() []string { return append([]string(nil), c.carriers...) }

// Destinations returns a copy of the destination list.
func (c Catalog) Destinations() []string { return append([]string(nil), c.destinations...) }

// RegionSet returns the region set sorted.
func (c Catalog) RegionSet() []string {
	list := make([]string, 0, len(c.region))
	for name := range c.region {
		list = append(list, name)
	}
	sort.Strings(list)
	return list
}

// InRegion reports whether a title-cased destination belongs to the region set.
func (c Catalog) InRegion(destination string) bool {
	_, ok := c.region[destination]
	return ok
}

// IsEmpty reports whether the catalog cannot drive generation.
func (c Catalog) IsEmpty() bool {
	return len(c.carriers) == 0 || len(c.destinations) == 0
}

// TitleCase trims and title-cases a place name with Spanish casing rules.
func TitleCase(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return cases.Title(language.Spanish).String(value)
}
