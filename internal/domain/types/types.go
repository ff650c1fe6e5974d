// Package types contains common types used across the application
package types

// Recommendation is one ranked candidate produced by the predictor.
type Recommendation struct {
	Rank   int     `json:"rank"`
	Player string  `json:"player"`
	Score  float64 `json:"score"`
}

// Importance is the share of the model's split gain attributed to one feature.
type Importance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}
