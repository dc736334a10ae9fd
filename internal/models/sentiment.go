package models

// Sentiment confidence labels. "pending" marks a signal the enrichment
// stage has not visited; "skipped" marks one it deliberately passed over.
const (
	ConfidenceLow     = "low"
	ConfidencePending = "pending"
	ConfidenceSkipped = "skipped"
)

// Sentiment is an AI-derived judgment of recent headlines, scored
// -5 (very bearish) to +5 (very bullish). Zero value of Score means
// neutral or unset.
type Sentiment struct {
	Score      float64  `json:"score"`
	Summary    *string  `json:"summary"`
	Confidence string   `json:"confidence"`
	Catalysts  []string `json:"catalysts,omitempty"`
}

// PendingSentiment is the default value carried by every fresh signal
// until the enrichment stage overwrites it.
func PendingSentiment() Sentiment {
	return Sentiment{Score: 0, Summary: nil, Confidence: ConfidencePending}
}
