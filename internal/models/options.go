package models

// StrikeSuggestion is one affordable option contract worth a look.
type StrikeSuggestion struct {
	Strike       float64 `json:"strike"`
	Premium      float64 `json:"premium"`
	IV           float64 `json:"iv"`
	Volume       int64   `json:"volume"`
	OpenInterest int64   `json:"oi"`
	BreakEven    float64 `json:"break_even"`
}

// OptionsSnapshot captures the chosen expiration's chain-derived metrics.
// Only populated when the chain has a parseable ATM quote on both sides.
type OptionsSnapshot struct {
	Expiration          string            `json:"expiration"` // YYYY-MM-DD
	DTE                 int               `json:"dte"`
	IVAvg               float64           `json:"iv_avg"` // percent
	ExpectedMovePct     float64           `json:"expected_move_pct"`
	ExpectedMoveDollars float64           `json:"expected_move_dollars"`
	CallSuggestion      *StrikeSuggestion `json:"call_suggestion"`
	PutSuggestion       *StrikeSuggestion `json:"put_suggestion"`
	ATMCallPrice        *float64          `json:"atm_call_price"`
	ATMPutPrice         *float64          `json:"atm_put_price"`
}
