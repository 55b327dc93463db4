package app

import (
	"time"

	"luckystat/domain/lotto"
	"luckystat/domain/week"
	"luckystat/internal/generator"
	"luckystat/internal/random"
	"luckystat/internal/selector"
)

// Generation is the result of one pipeline run
type Generation struct {
	Week        week.Identifier       `json:"week"`
	Seed        week.Seed             `json:"seed"`
	Sets        lotto.ResultSet       `json:"results"`
	Bonuses     []int                 `json:"bonuses,omitempty"`
	Diagnostics GenerationDiagnostics `json:"diagnostics"`
}

// GenerationDiagnostics describes how the run consumed the random stream
type GenerationDiagnostics struct {
	Draws               int `json:"draws"`
	Corrections         int `json:"corrections"`
	ConstraintFallbacks int `json:"constraint_fallbacks"`
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithLegacyWeighting reproduces the fixed-total weighted picks of the web client
func WithLegacyWeighting() PipelineOption {
	return func(p *Pipeline) {
		p.legacyWeighting = true
	}
}

// WithBonus draws one bonus number per final set after selection
func WithBonus() PipelineOption {
	return func(p *Pipeline) {
		p.bonus = true
	}
}

// Pipeline runs SeedClock -> SeededRandom -> candidate pool -> selection.
// A Pipeline holds no random state; every Generate call builds its own stream,
// so one Pipeline may be shared between goroutines.
type Pipeline struct {
	legacyWeighting bool
	bonus           bool
}

// NewPipeline creates a generation pipeline
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate produces the ten sets of the week containing now.
// Equal weeks and equal stats give identical generations.
func (p *Pipeline) Generate(now time.Time, stats lotto.NumberStats) Generation {
	id := week.Current(now)
	seed := week.SeedFor(id)

	rng := random.New(int64(seed))
	var opts []generator.Option
	if p.legacyWeighting {
		opts = append(opts, generator.WithLegacyWeighting())
	}
	gen := generator.New(rng, opts...)

	pool := gen.TemporarySets(stats)
	outcome := selector.Select(pool, gen)

	result := Generation{
		Week: id,
		Seed: seed,
		Sets: lotto.ResultSet(outcome.Sets),
	}
	if p.bonus {
		result.Bonuses = make([]int, len(outcome.Sets))
		for i, set := range outcome.Sets {
			result.Bonuses[i] = gen.Bonus(set.Numbers)
		}
	}
	result.Diagnostics = GenerationDiagnostics{
		Draws:               rng.Draws(),
		Corrections:         outcome.Corrections,
		ConstraintFallbacks: gen.ConstraintFallbacks(),
	}
	return result
}
