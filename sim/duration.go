package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// TransitionKind identifies one edge of the student state machine.
// Each kind has its own mean dwell time and therefore its own per-step probability.
type TransitionKind int

const (
	TransitionPickUp      TransitionKind = iota // Idle -> CarryingFromShelf
	TransitionStartUsing                        // CarryingFromShelf -> UsingMaterial
	TransitionFinishUsing                       // UsingMaterial -> CarryingToShelf
	TransitionShelve                            // CarryingToShelf -> Idle

	numTransitionKinds
)

var transitionKindNames = [numTransitionKinds]string{
	TransitionPickUp:      "pick_up",
	TransitionStartUsing:  "start_using",
	TransitionFinishUsing: "finish_using",
	TransitionShelve:      "shelve",
}

func (k TransitionKind) String() string {
	if k < 0 || k >= numTransitionKinds {
		return fmt.Sprintf("TransitionKind(%d)", int(k))
	}
	return transitionKindNames[k]
}

// TransitionProbability converts a mean dwell time T into the per-step firing
// probability p = Δt / T. Firing once per step with probability p yields a
// geometric holding time, the discrete analogue of an exponential with mean T.
// The approximation needs Δt ≪ T; p ≥ 1 means the transition fires every step.
func TransitionProbability(stepSeconds, meanSeconds float64) float64 {
	return stepSeconds / meanSeconds
}

// DurationModel holds the per-step firing probability of each transition kind.
type DurationModel struct {
	probabilities [numTransitionKinds]float64
}

// NewDurationModel derives per-kind probabilities from a validated Config.
func NewDurationModel(cfg Config) DurationModel {
	var m DurationModel
	for k := TransitionKind(0); k < numTransitionKinds; k++ {
		p := TransitionProbability(cfg.StepSizeSeconds, cfg.MeanSeconds(k))
		if p >= 1 {
			logrus.Warnf("transition %s has per-step probability %.3f; it fires every step", k, p)
		}
		m.probabilities[k] = p
	}
	return m
}

// Probability returns the per-step firing probability for kind.
func (m DurationModel) Probability(kind TransitionKind) float64 {
	return m.probabilities[kind]
}

// Fires consumes exactly one draw from rng and reports whether the transition fires.
func (m DurationModel) Fires(kind TransitionKind, rng *rand.Rand) bool {
	return rng.Float64() <= m.probabilities[kind]
}
