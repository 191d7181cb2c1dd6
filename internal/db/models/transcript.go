package models

import (
	"encoding/json"
	"time"
)

// Transcript is one stored recognition result: the punctuated text plus the
// raw per-character timestamp pairs, kept immutable so subtitle segmentation
// can be recomputed from it with any merge threshold.
type Transcript struct {
	ID          string          `json:"id"`
	SourceURL   string          `json:"source_url"`
	Language    string          `json:"language"`
	Text        string          `json:"text"`
	Timestamps  json.RawMessage `json:"timestamps,omitempty"` // [[start_ms,end_ms],...]
	DurationSec float64         `json:"duration_sec"`
	CreatedAt   time.Time       `json:"created_at"`
}
