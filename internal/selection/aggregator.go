package selection

import (
	"errors"
	"fmt"

	"github.com/wonny/qscreen/internal/contracts"
	"github.com/wonny/qscreen/pkg/logger"
)

// ErrInvalidWeights is returned when component weights cannot be normalised
var ErrInvalidWeights = errors.New("invalid component weights")

// WeightConfig defines component weights for the final score.
// Weights need not sum to 1; the aggregator normalises by their sum.
type WeightConfig struct {
	Valuation     float64 `json:"valuation"`     // 0.15
	Profitability float64 `json:"profitability"` // 0.25
	Growth        float64 `json:"growth"`        // 0.25
	Quality       float64 `json:"quality"`       // 0.35

	// Drop NoData components from both sums instead of counting them as 0
	SkipMissingComponents bool `json:"skip_missing_components,omitempty"`
}

// DefaultWeightConfig returns the quality-focused weights
func DefaultWeightConfig() WeightConfig {
	return WeightConfig{
		Valuation:     0.15,
		Profitability: 0.25,
		Growth:        0.25,
		Quality:       0.35,
	}
	// Total: 100%
}

// Weight returns the weight of a component
func (w WeightConfig) Weight(c contracts.Component) float64 {
	switch c {
	case contracts.ComponentValuation:
		return w.Valuation
	case contracts.ComponentProfitability:
		return w.Profitability
	case contracts.ComponentGrowth:
		return w.Growth
	case contracts.ComponentQuality:
		return w.Quality
	default:
		return 0
	}
}

// Sum returns the total weight
func (w WeightConfig) Sum() float64 {
	return w.Valuation + w.Profitability + w.Growth + w.Quality
}

// Validate rejects negative weights and a non-positive sum
func (w WeightConfig) Validate() error {
	for _, c := range contracts.Components {
		if w.Weight(c) < 0 {
			return fmt.Errorf("%w: %s weight is negative (%.4f)", ErrInvalidWeights, c, w.Weight(c))
		}
	}
	if sum := w.Sum(); sum <= 0 {
		return fmt.Errorf("%w: weights sum to %.4f", ErrInvalidWeights, sum)
	}
	return nil
}

// Aggregator implements S3: weighted combination of component scores
// ⭐ SSOT: 최종 점수 계산은 여기서만
type Aggregator struct {
	weights WeightConfig
	logger  *logger.Logger
}

// NewAggregator validates the weights and creates an aggregator
func NewAggregator(weights WeightConfig, logger *logger.Logger) (*Aggregator, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{weights: weights, logger: logger}, nil
}

// FinalScore combines four normalized component scores into 0..100
func (a *Aggregator) FinalScore(set *contracts.ComponentSet) float64 {
	var weighted, total float64
	for _, c := range contracts.Components {
		score := set.Get(c)
		w := a.weights.Weight(c)
		if a.weights.SkipMissingComponents && score.NoData {
			continue
		}
		weighted += score.Normalized * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

// Apply sets FinalScore on every record in place
func (a *Aggregator) Apply(scored []contracts.ScoredRecord) {
	for i := range scored {
		scored[i].FinalScore = a.FinalScore(&scored[i].Components)
	}

	a.logger.WithFields(map[string]interface{}{
		"records":      len(scored),
		"skip_no_data": a.weights.SkipMissingComponents,
		"weight_sum":   a.weights.Sum(),
	}).Debug("Aggregated final scores")
}
