// Package lootgen implements the stochastic model that decides how many new
// loot items appear on a map each tick (spec.md §4.3).
package lootgen

import (
	"math"
	"math/rand"
	"time"
)

// Generator tracks a carried fractional "time debt" across calls so that
// short ticks don't starve loot generation and long ticks don't produce a
// burst disproportionate to elapsed time.
//
// The law implemented here is an exponential (Poisson-process) thinning:
// each call advances a carried ratio of elapsed-time-over-period, derives an
// expected count, and draws from an exponential distribution via the
// inverse-CDF method (-ln(1-u)) scaled by that expected count. This is the
// same "loss-less Bernoulli thinning" the original C++ source uses — see
// spec.md §4.3 and §9's Open Question about the law's provenance. It
// satisfies the three required properties: (i) zero items when there are no
// idle looters or p=0; (ii) its long-run expectation converges to
// p*(looters-lootCurrent)*Δt/basePeriod; (iii) it is deterministic given a
// seeded source.
type Generator struct {
	basePeriod  float64 // seconds
	probability float64
	carry       float64
	rng         *rand.Rand
}

// New creates a Generator. rng must be non-nil for deterministic tests; pass
// a source seeded from crypto-random state in production.
func New(basePeriod time.Duration, probability float64, rng *rand.Rand) *Generator {
	return &Generator{
		basePeriod:  basePeriod.Seconds(),
		probability: probability,
		rng:         rng,
	}
}

// Generate returns how many new loot items should be created this tick,
// given elapsed time dt, the number of loot items currently present, and the
// number of looters (live dogs) in the session.
func (g *Generator) Generate(dt time.Duration, lootCurrent, looters int) int {
	if g.basePeriod <= 0 {
		return 0
	}
	ratio := dt.Seconds() / g.basePeriod
	g.carry += ratio

	demand := float64(looters - lootCurrent)
	if demand <= 0 || g.probability <= 0 {
		return 0
	}

	rate := demand * g.probability
	expected := g.carry * rate

	draw := g.rng.Float64()
	newItems := int(math.Floor(-math.Log(1-draw) * expected))
	if newItems < 0 {
		newItems = 0
	}

	denom := rate
	if denom < 1 {
		denom = 1
	}
	g.carry -= float64(newItems) / denom
	return newItems
}
