package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mission-gaming/tactician-sub000/pkg/constraints"
	"github.com/mission-gaming/tactician-sub000/pkg/engine"
)

func buildNoRepeatSet() (*constraints.Set, error) {
	return constraints.NewBuilder().NoRepeatPairings().Build()
}

func buildMinimumRestSet(k int) (*constraints.Set, error) {
	return constraints.NewBuilder().MinimumRestPeriods(k).Build()
}

const sampleConfigYAML = `
seed: 42
legs: 2
orderer: balanced
legStrategy: mirrored
participants:
  - id: alice
    seed: 1
  - id: bob
    seed: 2
  - id: carol
  - id: dave
constraints:
  - kind: no_repeat_pairings
  - kind: minimum_rest_periods
    k: 1
`

func TestLoadConfigFromBytes(t *testing.T) {
	cfg, err := engine.LoadConfigFromBytes([]byte(sampleConfigYAML))
	require.NoError(t, err)
	require.Equal(t, uint64(42), cfg.Seed)
	require.Equal(t, 2, cfg.Legs)
	require.Len(t, cfg.Participants, 4)
	require.Len(t, cfg.Constraints, 2)
}

func TestLoadConfigAutoGeneratesSeed(t *testing.T) {
	cfg, err := engine.LoadConfigFromBytes([]byte(`
legs: 1
participants:
  - id: a
  - id: b
`))
	require.NoError(t, err)
	require.NotZero(t, cfg.Seed)
}

func TestLoadConfigRejectsUnknownConstraintKind(t *testing.T) {
	_, err := engine.LoadConfigFromBytes([]byte(`
legs: 1
participants:
  - id: a
  - id: b
constraints:
  - kind: not_a_real_constraint
`))
	require.Error(t, err)
}

func TestLoadConfigRejectsTooFewParticipants(t *testing.T) {
	_, err := engine.LoadConfigFromBytes([]byte(`
legs: 1
participants:
  - id: a
`))
	require.Error(t, err)
}

func TestLoadConfigRejectsDuplicateParticipantIDs(t *testing.T) {
	_, err := engine.LoadConfigFromBytes([]byte(`
legs: 1
participants:
  - id: a
  - id: a
`))
	require.Error(t, err)
}

func TestLoadConfigRejectsUnknownOrdererOrLegStrategy(t *testing.T) {
	_, err := engine.LoadConfigFromBytes([]byte(`
legs: 1
orderer: not_a_real_orderer
participants:
  - id: a
  - id: b
`))
	require.Error(t, err)

	_, err = engine.LoadConfigFromBytes([]byte(`
legs: 1
legStrategy: not_a_real_strategy
participants:
  - id: a
  - id: b
`))
	require.Error(t, err)
}

func TestConfigHashIsDeterministic(t *testing.T) {
	cfg1, err := engine.LoadConfigFromBytes([]byte(sampleConfigYAML))
	require.NoError(t, err)
	cfg2, err := engine.LoadConfigFromBytes([]byte(sampleConfigYAML))
	require.NoError(t, err)
	require.Equal(t, cfg1.Hash(), cfg2.Hash())
}

func TestConfigHashChangesWithSeed(t *testing.T) {
	cfg1, err := engine.LoadConfigFromBytes([]byte(sampleConfigYAML))
	require.NoError(t, err)
	cfg2, err := engine.LoadConfigFromBytes([]byte(sampleConfigYAML))
	require.NoError(t, err)
	cfg2.Seed = cfg1.Seed + 1
	require.NotEqual(t, cfg1.Hash(), cfg2.Hash())
}

func TestConfigToOptionsResolvesRegistriesAndConstraints(t *testing.T) {
	cfg, err := engine.LoadConfigFromBytes([]byte(sampleConfigYAML))
	require.NoError(t, err)

	ps, opts, err := cfg.ToOptions()
	require.NoError(t, err)
	require.Len(t, ps, 4)
	require.Equal(t, 2, opts.Legs)
	require.NotNil(t, opts.Orderer)
	require.NotNil(t, opts.LegStrategy)
	require.Equal(t, 2, opts.Constraints.Len())
	require.NotNil(t, opts.Source)
}

func TestConfigToOptionsFeedsGenerateSchedule(t *testing.T) {
	cfg, err := engine.LoadConfigFromBytes([]byte(`
seed: 7
legs: 1
participants:
  - id: a
  - id: b
  - id: c
  - id: d
constraints:
  - kind: no_repeat_pairings
`))
	require.NoError(t, err)

	ps, opts, err := cfg.ToOptions()
	require.NoError(t, err)

	s := engine.NewRoundRobinScheduler()
	schedule, err := s.GenerateSchedule(ps,
		engine.WithLegs(opts.Legs),
		engine.WithOrderer(opts.Orderer),
		engine.WithLegStrategy(opts.LegStrategy),
		engine.WithConstraints(opts.Constraints),
		engine.WithSource(opts.Source),
	)
	require.NoError(t, err)
	require.Equal(t, 6, schedule.Count())
}
