package model

// Bounds for the predictions limit parameter.
const (
	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 20
)

// Placeholder derivation coefficients.
const (
	featureStep    = 0.5
	predictionBase = 10.0
	predictionStep = 0.3
	actualStep     = 0.28
)

// PredictionSample is one inference result with its ground truth.
type PredictionSample struct {
	ID         int     `json:"id"`
	FeatureX   float64 `json:"feature_x"`
	Prediction float64 `json:"prediction"`
	Actual     float64 `json:"actual"`
}

// PredictionBatch is the body of GET /predictions.
type PredictionBatch struct {
	Items []PredictionSample `json:"items"`
}

// ClampLimit normalises n into [MinLimit, MaxLimit].
func ClampLimit(n int64) int {
	switch {
	case n < MinLimit:
		return MinLimit
	case n > MaxLimit:
		return MaxLimit
	default:
		return int(n)
	}
}

// PlaceholderPredictions returns limit samples with ids 1..limit,
// each derived from its index. limit is expected to be clamped already.
func PlaceholderPredictions(limit int) PredictionBatch {
	items := make([]PredictionSample, 0, limit)
	for i := 0; i < limit; i++ {
		x := float64(i)
		items = append(items, PredictionSample{
			ID:         i + 1,
			FeatureX:   x * featureStep,
			Prediction: predictionBase + x*predictionStep,
			Actual:     predictionBase + x*actualStep,
		})
	}
	return PredictionBatch{Items: items}
}
