package world

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	LandmarkHouse = "House"
	LandmarkWater = "Water"

	zoneSuffix     = "_zone"
	buildingSuffix = "_building"
)

var ErrInvalidLandmarkKind = errors.New("invalid landmark kind")

// LandmarkKind describes one structure variant. Zones and buildings are plain
// records in a Catalog rather than distinct types.
type LandmarkKind struct {
	Name                     string `json:"name" yaml:"name"`
	Ownable                  bool   `json:"ownable" yaml:"ownable"`
	ConstructionCost         int    `json:"construction_cost" yaml:"construction_cost"`
	MaxResidentialPopulation int    `json:"max_residential_population" yaml:"max_residential_population"`
	MaxCommercialPopulation  int    `json:"max_commercial_population" yaml:"max_commercial_population"`
}

func (k LandmarkKind) IsZone() bool {
	return strings.HasSuffix(k.Name, zoneSuffix)
}

func (k LandmarkKind) IsBuilding() bool {
	return strings.HasSuffix(k.Name, buildingSuffix)
}

type LocationSpec struct {
	Cost                 int `json:"cost" yaml:"cost"`
	Population           int `json:"population" yaml:"population"`
	CommercialPopulation int `json:"commercial_population" yaml:"commercial_population"`
}

type Catalog struct {
	kinds map[string]LandmarkKind
}

func NewCatalog(kinds ...LandmarkKind) (Catalog, error) {
	c := Catalog{kinds: make(map[string]LandmarkKind, len(kinds))}
	for _, k := range kinds {
		if err := c.add(k); err != nil {
			return Catalog{}, err
		}
	}
	return c, nil
}

func DefaultCatalog() Catalog {
	c, _ := NewCatalog(
		LandmarkKind{Name: LandmarkHouse, Ownable: true},
		LandmarkKind{Name: LandmarkWater},
	)
	return c
}

// WithLocations returns a copy of the catalog extended with one zone and one
// building variant per location name.
func (c Catalog) WithLocations(locations map[string]LocationSpec) (Catalog, error) {
	out := Catalog{kinds: make(map[string]LandmarkKind, len(c.kinds)+2*len(locations))}
	for name, k := range c.kinds {
		out.kinds[name] = k
	}
	names := make([]string, 0, len(locations))
	for name := range locations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		loc := locations[name]
		if loc.Cost < 0 || loc.Population < 0 || loc.CommercialPopulation < 0 {
			return Catalog{}, fmt.Errorf("%w: location %q has negative values", ErrInvalidLandmarkKind, name)
		}
		if err := out.add(LandmarkKind{Name: name + zoneSuffix, Ownable: true}); err != nil {
			return Catalog{}, err
		}
		if err := out.add(LandmarkKind{
			Name:                     name + buildingSuffix,
			Ownable:                  true,
			ConstructionCost:         loc.Cost,
			MaxResidentialPopulation: loc.Population,
			MaxCommercialPopulation:  loc.CommercialPopulation,
		}); err != nil {
			return Catalog{}, err
		}
	}
	return out, nil
}

func (c Catalog) add(k LandmarkKind) error {
	name := strings.TrimSpace(k.Name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidLandmarkKind)
	}
	if _, exists := c.kinds[name]; exists {
		return fmt.Errorf("%w: duplicate %q", ErrInvalidLandmarkKind, name)
	}
	k.Name = name
	c.kinds[name] = k
	return nil
}

func (c Catalog) Lookup(name string) (LandmarkKind, bool) {
	k, ok := c.kinds[name]
	return k, ok
}

func (c Catalog) Names() []string {
	out := make([]string, 0, len(c.kinds))
	for name := range c.kinds {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (c Catalog) Len() int {
	return len(c.kinds)
}
