package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every configuration failure that is not an
// I/O error.
var ErrInvalidConfig = errors.New("invalid simulation config")

//go:embed config.schema.json
var configSchema string

const schemaURL = "config.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString(schemaURL, configSchema)
})

// validateDocument checks a decoded JSON document against the embedded schema.
func validateDocument(doc interface{}) error {
	sch, err := compileSchema()
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("%w: config validation failed: %w", ErrInvalidConfig, err)
	}
	return nil
}

type Config struct {
	// Flock steering (see flock.Settings)
	RepulsionDistance  float64 `json:"repulsionDistance" yaml:"repulsionDistance"`
	AlignmentDistance  float64 `json:"alignmentDistance" yaml:"alignmentDistance"`
	AttractionDistance float64 `json:"attractionDistance" yaml:"attractionDistance"`
	RepulsionForce     float64 `json:"repulsionForce" yaml:"repulsionForce"`
	AlignmentForce     float64 `json:"alignmentForce" yaml:"alignmentForce"`
	AttractionForce    float64 `json:"attractionForce" yaml:"attractionForce"`
	MaxSpeed           float64 `json:"maxSpeed" yaml:"maxSpeed"`
	SteerSpeed         float64 `json:"steerSpeed" yaml:"steerSpeed"`

	// Population. The spawner bound is inclusive: NumBoids+1 agents are created.
	NumBoids   int     `json:"numBoids" yaml:"numBoids"`
	Spread     float64 `json:"spread" yaml:"spread"`
	StartSpeed float64 `json:"startSpeed" yaml:"startSpeed"`
	CenterX    float64 `json:"centerX" yaml:"centerX"`
	CenterY    float64 `json:"centerY" yaml:"centerY"`
	CenterZ    float64 `json:"centerZ" yaml:"centerZ"`
	Seed       uint64  `json:"seed" yaml:"seed"` // 0 picks a random seed

	// Loop
	TickRate float64 `json:"tickRate" yaml:"tickRate"` // ticks per second
	Workers  int     `json:"workers" yaml:"workers"`   // sensing goroutines, 0 or 1 is sequential
}

func DefaultConfig() *Config {
	s := flock.DefaultSettings()
	return &Config{
		RepulsionDistance:  s.RepulsionDistance,
		AlignmentDistance:  s.AlignmentDistance,
		AttractionDistance: s.AttractionDistance,
		RepulsionForce:     s.RepulsionForce,
		AlignmentForce:     s.AlignmentForce,
		AttractionForce:    s.AttractionForce,
		MaxSpeed:           s.MaxSpeed,
		SteerSpeed:         s.SteerSpeed,
		NumBoids:           50,
		Spread:             10,
		StartSpeed:         4,
		TickRate:           60,
		Workers:            1,
	}
}

// Settings extracts the flock steering settings.
func (c *Config) Settings() flock.Settings {
	return flock.Settings{
		RepulsionDistance:  c.RepulsionDistance,
		AlignmentDistance:  c.AlignmentDistance,
		AttractionDistance: c.AttractionDistance,
		RepulsionForce:     c.RepulsionForce,
		AlignmentForce:     c.AlignmentForce,
		AttractionForce:    c.AttractionForce,
		MaxSpeed:           c.MaxSpeed,
		SteerSpeed:         c.SteerSpeed,
	}
}

// SetSettings copies s into the steering fields of c.
func (c *Config) SetSettings(s flock.Settings) {
	c.RepulsionDistance = s.RepulsionDistance
	c.AlignmentDistance = s.AlignmentDistance
	c.AttractionDistance = s.AttractionDistance
	c.RepulsionForce = s.RepulsionForce
	c.AlignmentForce = s.AlignmentForce
	c.AttractionForce = s.AttractionForce
	c.MaxSpeed = s.MaxSpeed
	c.SteerSpeed = s.SteerSpeed
}

func (c *Config) Center() geometry.Vector3D {
	return geometry.NewVector(c.CenterX, c.CenterY, c.CenterZ)
}

// Validate checks the cross-field rules the schema cannot express.
func (c *Config) Validate() error {
	var err error
	if sErr := c.Settings().Validate(); sErr != nil {
		err = multierr.Append(err, sErr)
	}
	if c.NumBoids < 0 {
		err = multierr.Append(err, fmt.Errorf("numBoids must be >= 0, got %d", c.NumBoids))
	}
	if c.Spread < 0 {
		err = multierr.Append(err, fmt.Errorf("spread must be >= 0, got %v", c.Spread))
	}
	if c.StartSpeed < 0 {
		err = multierr.Append(err, fmt.Errorf("startSpeed must be >= 0, got %v", c.StartSpeed))
	}
	if !c.Center().IsFinite() {
		err = multierr.Append(err, fmt.Errorf("center must be finite, got %v", c.Center()))
	}
	if !(c.TickRate > 0) {
		err = multierr.Append(err, fmt.Errorf("tickRate must be > 0, got %v", c.TickRate))
	}
	if c.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig loads a JSON or YAML configuration file, validates it against
// the embedded schema and decodes it over DefaultConfig, so a file only needs
// the fields it changes.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Read Config File
	raw, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 2. Normalize to JSON so both formats share one validation path
	b := raw
	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: failed to decode config yaml: %w", ErrInvalidConfig, err)
		}
		if doc == nil {
			doc = map[string]interface{}{}
		}
		if b, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("%w: failed to convert config yaml: %w", ErrInvalidConfig, err)
		}
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("%w: failed to decode config json: %w", ErrInvalidConfig, err)
	}
	if err := validateDocument(v); err != nil {
		return nil, err
	}

	// 4. Unmarshal over the defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply returns a copy of c with the given fields changed, keyed by their
// json names. Changes go through the same schema as config files, so unknown
// or misspelled keys are rejected.
func (c *Config) Apply(changes map[string]interface{}) (*Config, error) {
	b, err := json.Marshal(changes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode config changes: %w", ErrInvalidConfig, err)
	}
	var doc interface{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode config changes: %w", ErrInvalidConfig, err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	next := *c
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		return nil, fmt.Errorf("%w: failed to apply config changes: %w", ErrInvalidConfig, err)
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	return &next, nil
}

// WriteConfig stores cfg as YAML, or JSON when path ends in .json.
func WriteConfig(path string, cfg *Config) error {
	var (
		b   []byte
		err error
	)
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		b, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		b, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
