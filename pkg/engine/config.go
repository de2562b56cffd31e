package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mission-gaming/tactician-sub000/pkg/constraints"
	"github.com/mission-gaming/tactician-sub000/pkg/legstrategy"
	"github.com/mission-gaming/tactician-sub000/pkg/model"
	"github.com/mission-gaming/tactician-sub000/pkg/orderer"
	"github.com/mission-gaming/tactician-sub000/pkg/rngsrc"
	"github.com/mission-gaming/tactician-sub000/pkg/roundrobin"
)

// Config is the YAML-loadable declarative form of a generation request:
// participants, leg/ordering strategy names, and a constraint list,
// resolved against the orderer/legstrategy registries and the constraint
// Builder by ToOptions.
type Config struct {
	// Seed is the master seed for every derived random source. Use 0 to
	// auto-generate from the current time.
	Seed uint64 `yaml:"seed" json:"seed"`

	// Legs is the number of legs to generate. Must be >= 1.
	Legs int `yaml:"legs" json:"legs"`

	// Orderer names a registered orderer.Orderer ("static", "alternating",
	// "balanced"), or "seeded_random", which ResolveOrderer builds from the
	// config's random source. Defaults to "static".
	Orderer string `yaml:"orderer,omitempty" json:"orderer,omitempty"`

	// LegStrategy names a registered legstrategy.Strategy ("repeated",
	// "mirrored", or "shuffled"). Defaults to "repeated".
	LegStrategy string `yaml:"legStrategy,omitempty" json:"legStrategy,omitempty"`

	// ExplicitOrder pins position binding to Participants' declared order.
	ExplicitOrder bool `yaml:"explicitOrder,omitempty" json:"explicitOrder,omitempty"`

	// Participants lists the entrants, in submission order.
	Participants []ParticipantCfg `yaml:"participants" json:"participants"`

	// Constraints lists the constraint pipeline, evaluated in order.
	Constraints []ConstraintCfg `yaml:"constraints,omitempty" json:"constraints,omitempty"`
}

// ParticipantCfg is one entrant's declarative description.
type ParticipantCfg struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
	// Seed, if non-zero, becomes the participant's seed (consulted by the
	// SeedProtection constraint) and is also stored as its "seed" metadata
	// value. A non-zero seed must be positive.
	Seed int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// ConstraintCfg is one constraint pipeline entry. Kind selects which
// Builder shortcut to call; the remaining fields are interpreted according
// to Kind and left at their zero value otherwise.
type ConstraintCfg struct {
	// Kind is one of: "no_repeat_pairings", "minimum_rest_periods",
	// "seed_protection", "consecutive_role", "require_same_value",
	// "require_different_values", "require_adjacent_values",
	// "max_unique_values".
	Kind string `yaml:"kind" json:"kind"`

	// K is the round count for minimum_rest_periods.
	K int `yaml:"k,omitempty" json:"k,omitempty"`

	// TopN and Fraction parameterize seed_protection.
	TopN     int     `yaml:"topN,omitempty" json:"topN,omitempty"`
	Fraction float64 `yaml:"fraction,omitempty" json:"fraction,omitempty"`

	// Limit and RoleKind parameterize consecutive_role. RoleKind is
	// "home_away" or "position"; defaults to "home_away".
	Limit    int    `yaml:"limit,omitempty" json:"limit,omitempty"`
	RoleKind string `yaml:"roleKind,omitempty" json:"roleKind,omitempty"`

	// Key and N parameterize the metadata-family constraints; N is used
	// only by max_unique_values.
	Key string `yaml:"key,omitempty" json:"key,omitempty"`
	N   int    `yaml:"n,omitempty" json:"n,omitempty"`
}

// LoadConfig reads and parses a Config from a YAML file, auto-generating a
// seed and validating the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("engine: reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses a Config from YAML bytes. Useful for tests and
// programmatically assembled configuration.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("engine: parsing YAML: %w", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = generateSeed()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration's own shape, independent of the
// participant-count/constraint-feasibility cross-checks Precheck performs
// once the participants and constraints have been resolved.
func (c *Config) Validate() error {
	if c.Legs < 1 {
		return fmt.Errorf("legs: must be >= 1, got %d", c.Legs)
	}
	if len(c.Participants) < 2 {
		return fmt.Errorf("participants: must have at least 2, got %d", len(c.Participants))
	}
	seen := make(map[string]struct{}, len(c.Participants))
	for _, p := range c.Participants {
		if p.ID == "" {
			return fmt.Errorf("participants: id must not be empty")
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("participants: duplicate id %q", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	if c.Orderer != "" && c.Orderer != "seeded_random" {
		if _, err := orderer.Get(c.Orderer); err != nil {
			return fmt.Errorf("orderer: %w", err)
		}
	}
	if c.LegStrategy != "" && legstrategy.Get(c.LegStrategy) == nil {
		return fmt.Errorf("legStrategy: %q is not registered", c.LegStrategy)
	}
	for i, cc := range c.Constraints {
		if err := cc.validateKind(); err != nil {
			return fmt.Errorf("constraints[%d]: %w", i, err)
		}
	}
	return nil
}

func (cc ConstraintCfg) validateKind() error {
	switch cc.Kind {
	case "no_repeat_pairings", "minimum_rest_periods", "seed_protection",
		"consecutive_role", "require_same_value", "require_different_values",
		"require_adjacent_values", "max_unique_values":
		return nil
	default:
		return fmt.Errorf("unknown kind %q", cc.Kind)
	}
}

// ToYAML serializes the config back to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Hash computes a deterministic digest of the configuration, suitable for
// deriving a display fingerprint or for change detection between runs. It
// is not consulted by generation itself, which derives its randomness from
// Seed via rngsrc.
func (c *Config) Hash() []byte {
	data, err := c.ToYAML()
	if err != nil {
		h := sha256.New()
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], c.Seed)
		h.Write(buf[:])
		return h.Sum(nil)
	}
	h := sha256.New()
	h.Write(data)
	return h.Sum(nil)
}

// generateSeed derives a seed from the current time, for configs that leave
// Seed at 0.
func generateSeed() uint64 {
	now := time.Now().UnixNano()
	if now < 0 {
		now = -now
	}
	seed := uint64(now)
	if seed == 0 {
		seed = 1
	}
	return seed
}

// Participants builds the model.Participant slice described by the
// configuration, in declared order.
func (c *Config) Participants() ([]model.Participant, error) {
	out := make([]model.Participant, 0, len(c.Participants))
	for _, pc := range c.Participants {
		var metadata model.Metadata
		if pc.Seed != 0 {
			metadata = model.Metadata{"seed": model.IntValue(pc.Seed)}
		}
		p, err := model.NewParticipant(pc.ID, pc.Label, metadata)
		if err != nil {
			return nil, fmt.Errorf("engine: participant %q: %w", pc.ID, err)
		}
		if pc.Seed != 0 {
			p, err = p.WithSeed(int(pc.Seed))
			if err != nil {
				return nil, fmt.Errorf("engine: participant %q: %w", pc.ID, err)
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// Source derives the top-level rngsrc.Source for this configuration's Seed.
func (c *Config) Source() rngsrc.Source {
	return rngsrc.NewDeterministicSource(c.Seed)
}

// ResolveOrderer looks up the configured orderer, constructing a
// SeededRandom bound to src when Orderer is "seeded_random".
func (c *Config) ResolveOrderer(src rngsrc.Source) (orderer.Orderer, error) {
	name := c.Orderer
	if name == "" {
		name = "static"
	}
	if name == "seeded_random" {
		return orderer.NewSeededRandom(src.Sub("orderer/seeded_random")), nil
	}
	return orderer.Get(name)
}

// ResolveLegStrategy looks up the configured leg strategy, defaulting to
// Repeated.
func (c *Config) ResolveLegStrategy() legstrategy.Strategy {
	name := c.LegStrategy
	if name == "" {
		name = "repeated"
	}
	return legstrategy.Get(name)
}

// BuildConstraints assembles the constraint pipeline described by
// Constraints, in declared order, via constraints.Builder.
func (c *Config) BuildConstraints() (*constraints.Set, error) {
	b := constraints.NewBuilder()
	for _, cc := range c.Constraints {
		switch cc.Kind {
		case "no_repeat_pairings":
			b.NoRepeatPairings()
		case "minimum_rest_periods":
			b.MinimumRestPeriods(cc.K)
		case "seed_protection":
			b.SeedProtection(cc.TopN, cc.Fraction)
		case "consecutive_role":
			b.ConsecutiveRole(cc.Limit, roleKindFromString(cc.RoleKind))
		case "require_same_value":
			b.RequireSameValue(cc.Key)
		case "require_different_values":
			b.RequireDifferentValues(cc.Key)
		case "require_adjacent_values":
			b.RequireAdjacentValues(cc.Key)
		case "max_unique_values":
			b.MaxUniqueValues(cc.Key, cc.N)
		default:
			return nil, fmt.Errorf("engine: unknown constraint kind %q", cc.Kind)
		}
	}
	return b.Build()
}

func roleKindFromString(s string) constraints.RoleKind {
	if s == "position" {
		return constraints.PositionRole
	}
	return constraints.HomeAwayRole
}

// ToOptions resolves the configuration into a roundrobin.Options and the
// participant slice ready for Scheduler.GenerateSchedule / GenerateRound.
func (c *Config) ToOptions() ([]model.Participant, roundrobin.Options, error) {
	participants, err := c.Participants()
	if err != nil {
		return nil, roundrobin.Options{}, err
	}
	src := c.Source()
	ord, err := c.ResolveOrderer(src)
	if err != nil {
		return nil, roundrobin.Options{}, err
	}
	cset, err := c.BuildConstraints()
	if err != nil {
		return nil, roundrobin.Options{}, err
	}
	opts := roundrobin.Options{
		Legs:          c.Legs,
		LegStrategy:   c.ResolveLegStrategy(),
		Orderer:       ord,
		Constraints:   cset,
		Source:        src,
		ExplicitOrder: c.ExplicitOrder,
	}
	return participants, opts, nil
}
