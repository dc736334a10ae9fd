package models

import "time"

// JournalPick is one condensed top pick in a journal entry.
type JournalPick struct {
	Ticker    string    `json:"ticker"`
	Score     float64   `json:"score"`
	Direction Direction `json:"direction"`
	AISummary *string   `json:"ai_summary"`
}

// WatchItem is one ticker the AI narrative suggests watching.
type WatchItem struct {
	Ticker    string `json:"ticker"`
	Direction string `json:"direction"` // CALL|PUT|NEUTRAL
	Why       string `json:"why"`
}

// Narrative is the optional AI-authored journal note.
type Narrative struct {
	Headline  string      `json:"headline"`
	Tone      string      `json:"tone"` // bullish|bearish|mixed|neutral
	Themes    []string    `json:"themes"`
	Watchlist []WatchItem `json:"watchlist"`
	Notes     string      `json:"notes"`
}

// JournalEntry is one run's record in the append-only research journal.
// CreatedAt doubles as the dedup key: a re-run producing the same
// timestamp replaces the head entry instead of appending.
type JournalEntry struct {
	CreatedAt time.Time     `json:"created_at"`
	RunID     string        `json:"run_id"`
	Title     string        `json:"title"`
	Summary   string        `json:"summary"`
	TopPicks  []JournalPick `json:"top_picks"`
	AIJournal *Narrative    `json:"ai_journal,omitempty"`
	Model     string        `json:"model,omitempty"`
}
