package models

// Direction is the option structure a trade idea suggests.
type Direction string

const (
	DirectionCall     Direction = "CALL"
	DirectionPut      Direction = "PUT"
	DirectionStraddle Direction = "STRADDLE"
)

// EntryExit holds suggested price levels for the underlying plus textual
// guidance for the option leg.
type EntryExit struct {
	Direction    Direction `json:"direction"`
	StockEntry   float64   `json:"stock_entry"`
	StockTarget  float64   `json:"stock_target"`
	StockStop    float64   `json:"stock_stop"`
	OptionEntry  string    `json:"option_entry"`
	OptionTarget string    `json:"option_target"`
	OptionStop   string    `json:"option_stop"`
}

// TradeIdea is a directional suggestion derived from a scored signal.
// It is recomputed from scratch whenever the score or reasons change.
type TradeIdea struct {
	Direction       Direction         `json:"direction"`
	Bias            Trend             `json:"bias"`
	Expiry          string            `json:"expiry"`
	Reasons         []string          `json:"reasons"`
	EntryExit       EntryExit         `json:"entry_exit"`
	SuggestedOption *StrikeSuggestion `json:"suggested_option"`
}

// Opportunity is a signal that passed the minimum-score filter, with its
// score, ordered reason tags, trade idea, and category tags. Category
// membership is computed once by the report assembler.
type Opportunity struct {
	TickerSignal
	Score     float64   `json:"score"`
	Reasons   []string  `json:"reasons"`
	TradeIdea TradeIdea `json:"trade_idea"`

	EarningsPlay bool `json:"-"`
	MomentumPlay bool `json:"-"`
	OversoldPlay bool `json:"-"`
}
