package citygen

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/gotidy/ptr"
	"gopkg.in/yaml.v3"

	"github.com/cityproc/citygen/pkg/building"
	"github.com/cityproc/citygen/pkg/citygraph"
	"github.com/cityproc/citygen/pkg/element"
	"github.com/cityproc/citygen/pkg/geom"
	"github.com/cityproc/citygen/pkg/road"
	"github.com/cityproc/citygen/pkg/route"
)

// Config specifies all city generation parameters, read from the nested
// citygen.* key space (spec §6). It supports YAML parsing and full
// validation, mirroring the teacher's pkg/dungeon/config.go.
type Config struct {
	// Seed is the master seed for deterministic generation. A nil Seed
	// means "unset": LoadConfig fills it with a fixed default so reruns
	// without an explicit seed stay reproducible (spec §6 "defaults to a
	// fixed value for reproducibility") rather than the teacher's
	// time-derived auto-seed, which would break that guarantee here.
	Seed *uint64 `yaml:"seed,omitempty" json:"seed,omitempty"`

	Debug bool `yaml:"debug" json:"debug"`

	Quadtree  QuadtreeCfg  `yaml:"quadtree" json:"quadtree"`
	Road      road.Config  `yaml:"road" json:"road"`
	Building  BuildingCfg  `yaml:"building" json:"building"`
	Element   ElementCfg   `yaml:"element" json:"element"`
	Route     route.Config `yaml:"route" json:"route"`
	Sidewalk  citygraph.Config `yaml:"sidewalk" json:"sidewalk"`

	OutputDir string `yaml:"outputDir" json:"outputDir"`
}

// QuadtreeCfg is citygen.quadtree.* — the world AABB and split thresholds
// shared by every spatial index the generator builds (spec §6).
type QuadtreeCfg struct {
	Bounds     geom.Bounds `yaml:"bounds" json:"bounds"`
	MaxObjects int         `yaml:"maxObjects" json:"maxObjects"`
	MaxLevels  int         `yaml:"maxLevels" json:"maxLevels"`
}

// BuildingCfg is citygen.building.* (spec §6). RequiredTypes/OptionalTypes
// are plain name+footprint declarations; IsRequired is set by the loader
// to whichever list a type was declared in.
type BuildingCfg struct {
	BuildingBuildingDistance float64        `yaml:"buildingBuildingDistance" json:"buildingBuildingDistance"`
	RoadBuildingDistance     float64        `yaml:"roadBuildingDistance" json:"roadBuildingDistance"`
	FrontageStride           float64        `yaml:"frontageStride" json:"frontageStride"`
	StrideJitter             float64        `yaml:"strideJitter" json:"strideJitter"`
	RequiredTypes            []TypeCfg      `yaml:"requiredTypes" json:"requiredTypes"`
	OptionalTypes            []TypeCfg      `yaml:"optionalTypes" json:"optionalTypes"`
}

// TypeCfg declares one building or element footprint by name.
type TypeCfg struct {
	Name   string  `yaml:"name" json:"name"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// ElementCfg is citygen.element.* (spec §6).
type ElementCfg struct {
	ElementElementDistance  float64   `yaml:"elementElementDistance" json:"elementElementDistance"`
	ElementBuildingDistance float64   `yaml:"elementBuildingDistance" json:"elementBuildingDistance"`
	RoadElementSpacing      float64   `yaml:"roadElementSpacing" json:"roadElementSpacing"`
	Types                   []TypeCfg `yaml:"types" json:"types"`
	MaxAroundBuilding        int      `yaml:"maxAroundBuilding" json:"maxAroundBuilding"`
}

// defaultSeed is used when citygen.seed is omitted, so reruns without an
// explicit seed still satisfy the determinism property (spec §8 property 6).
const defaultSeed uint64 = 1

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses YAML configuration from a byte slice.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if cfg.Seed == nil {
		cfg.Seed = ptr.Uint64(defaultSeed)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return &cfg, nil
}

// SeedValue returns the effective seed, defaulting when unset.
func (c *Config) SeedValue() uint64 {
	if c.Seed == nil {
		return defaultSeed
	}
	return *c.Seed
}

// Validate checks every configuration constraint, matching the
// fail-fast-at-construction policy of spec §7's "Configuration error"
// class.
func (c *Config) Validate() error {
	if c.Quadtree.Bounds.Width <= 0 || c.Quadtree.Bounds.Height <= 0 {
		return errors.New("quadtree.bounds must have positive width and height")
	}
	if c.Quadtree.MaxObjects <= 0 {
		return errors.New("quadtree.maxObjects must be positive")
	}
	if c.Quadtree.MaxLevels <= 0 {
		return errors.New("quadtree.maxLevels must be positive")
	}
	if c.Road.SegmentCap <= 0 {
		return errors.New("road.segmentCap must be positive")
	}
	if c.Road.MinLength <= 0 {
		return errors.New("road.minLength must be positive")
	}
	if c.Building.FrontageStride <= 0 {
		return errors.New("building.frontageStride must be positive")
	}
	for i, t := range c.Building.RequiredTypes {
		if err := t.validate(); err != nil {
			return fmt.Errorf("building.requiredTypes[%d]: %w", i, err)
		}
	}
	for i, t := range c.Building.OptionalTypes {
		if err := t.validate(); err != nil {
			return fmt.Errorf("building.optionalTypes[%d]: %w", i, err)
		}
	}
	for i, t := range c.Element.Types {
		if err := t.validate(); err != nil {
			return fmt.Errorf("element.types[%d]: %w", i, err)
		}
	}
	if c.Route.MinPointsPerRoute <= 0 || c.Route.MaxPointsPerRoute < c.Route.MinPointsPerRoute {
		return errors.New("route.minPointsPerRoute/maxPointsPerRoute must be positive and min <= max")
	}
	if c.Sidewalk.SidewalkOffset <= 0 {
		return errors.New("sidewalk.sidewalkOffset must be positive")
	}
	return nil
}

func (t TypeCfg) validate() error {
	if t.Name == "" {
		return errors.New("name must not be empty")
	}
	if t.Width <= 0 || t.Height <= 0 {
		return errors.New("width and height must be positive")
	}
	return nil
}

// buildingTypes resolves RequiredTypes/OptionalTypes into building.Type
// values with IsRequired set appropriately.
func (c *Config) buildingTypes() []building.Type {
	out := make([]building.Type, 0, len(c.Building.RequiredTypes)+len(c.Building.OptionalTypes))
	for _, t := range c.Building.RequiredTypes {
		out = append(out, building.Type{Name: t.Name, Width: t.Width, Height: t.Height, IsRequired: true})
	}
	for _, t := range c.Building.OptionalTypes {
		out = append(out, building.Type{Name: t.Name, Width: t.Width, Height: t.Height, IsRequired: false})
	}
	return out
}

func (c *Config) elementTypes() []element.Type {
	out := make([]element.Type, 0, len(c.Element.Types))
	for _, t := range c.Element.Types {
		out = append(out, element.Type{Name: t.Name, Width: t.Width, Height: t.Height})
	}
	return out
}

// ToYAML serialises the config back to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Hash computes a deterministic hash of the configuration, used to derive
// stage RNGs (spec's S5 determinism property). Grounded on the teacher's
// Config.Hash: serialise to YAML and SHA-256 it, falling back to hashing
// just the seed if serialisation somehow fails.
func (c *Config) Hash() []byte {
	data, err := c.ToYAML()
	if err != nil {
		h := sha256.New()
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], c.SeedValue())
		h.Write(buf[:])
		return h.Sum(nil)
	}
	h := sha256.New()
	h.Write(data)
	return h.Sum(nil)
}

// DefaultConfig returns a Config populated with the component defaults
// (road.DefaultConfig et al.) plus a 2000x2000 world centred on the
// origin, matching the scale of spec §8's scenario fixtures.
func DefaultConfig() Config {
	return Config{
		Seed:  ptr.Uint64(defaultSeed),
		Debug: false,
		Quadtree: QuadtreeCfg{
			Bounds:     geom.NewBounds(-1000, -1000, 2000, 2000),
			MaxObjects: 8,
			MaxLevels:  6,
		},
		Road: road.DefaultConfig(),
		Building: BuildingCfg{
			BuildingBuildingDistance: 5,
			RoadBuildingDistance:     10,
			FrontageStride:           120,
			StrideJitter:             10,
		},
		Element: ElementCfg{
			ElementElementDistance:  2,
			ElementBuildingDistance: 3,
			RoadElementSpacing:      30,
			MaxAroundBuilding:       3,
		},
		Route: route.Config{MinPointsPerRoute: 3, MaxPointsPerRoute: 8},
		Sidewalk: citygraph.Config{SidewalkOffset: 5, Slack: 1},
		OutputDir: ".",
	}
}
