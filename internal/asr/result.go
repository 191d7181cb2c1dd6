package asr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/video2text/backend/internal/subtitle/srt"
)

// ErrMalformedResult is returned when a recognition response is missing its
// text or carries a broken timestamp list. An empty timestamp list with
// non-empty text is not an error: the caller still gets the recognized text,
// just without timing metadata.
var ErrMalformedResult = errors.New("asr: malformed recognition result")

// Result is a recognition engine's output: punctuated text plus one
// (start, end) millisecond pair per content character, in text order.
type Result struct {
	Text       string     `json:"text"`
	Timestamps [][2]int64 `json:"timestamp"`
	Language   string     `json:"language,omitempty"`
}

// CueTimestamps converts the raw pairs into the segmentation engine's form.
func (r *Result) CueTimestamps() []srt.Timestamp {
	return CueTimestamps(r.Timestamps)
}

// CueTimestamps converts raw (start, end) millisecond pairs into the
// segmentation engine's form.
func CueTimestamps(pairs [][2]int64) []srt.Timestamp {
	out := make([]srt.Timestamp, len(pairs))
	for i, p := range pairs {
		out[i] = srt.Timestamp{StartMS: p[0], EndMS: p[1]}
	}
	return out
}

type rawResult struct {
	Text      string    `json:"text"`
	Timestamp [][]int64 `json:"timestamp"`
	Language  string    `json:"language"`
}

// ParseResult decodes a FunASR-style inference response. The engine returns
// either a bare result object or a one-element array wrapping it.
func ParseResult(data []byte) (*Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResult)
	}

	var raw rawResult
	if trimmed[0] == '[' {
		var list []rawResult
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("%w: empty result list", ErrMalformedResult)
		}
		raw = list[0]
	} else {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResult, err)
		}
	}

	if raw.Text == "" {
		return nil, fmt.Errorf("%w: missing text", ErrMalformedResult)
	}

	result := &Result{
		Text:       raw.Text,
		Timestamps: make([][2]int64, 0, len(raw.Timestamp)),
		Language:   raw.Language,
	}
	for i, pair := range raw.Timestamp {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: timestamp %d has %d elements", ErrMalformedResult, i, len(pair))
		}
		result.Timestamps = append(result.Timestamps, [2]int64{pair[0], pair[1]})
	}
	return result, nil
}
