package srt

import (
	"errors"
	"strings"
	"unicode"
)

// ErrMinMergeLength is returned when the merge threshold is not a positive
// integer. Callers are expected to clamp slider values before invoking Segment.
var ErrMinMergeLength = errors.New("srt: min merge length must be positive")

// Break character sets, checked in priority order. Hard breaks end a cue
// unconditionally; soft breaks end one only once the buffered text has
// reached the merge threshold. Any other rune is a content unit and
// consumes the next timestamp.
const (
	hardBreaks = "。？！；：?!;:\n"
	softBreaks = "，、, "
)

// Segment converts punctuated recognition text plus per-unit timestamps into
// an ordered list of subtitle cues.
//
// The text is scanned left to right once. Each content rune consumes the next
// timestamp pair: the first one of a cue sets its start, every one updates its
// end. When the timestamp list runs out, trailing content runes keep the last
// known end time. A hard-break rune always flushes the current cue; a
// soft-break rune flushes only when the buffered rune count, including the
// punctuation itself, has reached minMergeLength — below that the punctuation
// is absorbed and accumulation continues. Leftover text after the scan is
// flushed as a final cue. Flushing trims the buffer and drops cues that are
// whitespace or punctuation only; a cue that never saw a timestamp falls back
// to the last known end time for both bounds.
//
// Segment is a pure function: identical inputs yield identical output, and no
// state survives between calls.
func Segment(text string, timestamps []Timestamp, minMergeLength int) ([]Cue, error) {
	if minMergeLength <= 0 {
		return nil, ErrMinMergeLength
	}

	var (
		cues    []Cue
		buf     []rune
		content bool
		startMS int64 = -1
		endMS   int64
		cursor  int
	)

	flush := func() {
		trimmed := strings.TrimSpace(string(buf))
		buf = buf[:0]
		// A run of pure punctuation or whitespace is never a cue, even when
		// a hard break or the end of input forces a flush.
		if trimmed == "" || !content {
			content = false
			startMS = -1
			return
		}
		content = false
		start := startMS
		if start == -1 {
			// No content unit ever carried a timestamp; anchor to the
			// last known end time.
			start = endMS
		}
		cues = append(cues, Cue{
			Index:   len(cues) + 1,
			StartMS: start,
			EndMS:   endMS,
			Text:    trimmed,
		})
		startMS = -1
	}

	for _, r := range text {
		hard := strings.ContainsRune(hardBreaks, r)
		soft := !hard && (strings.ContainsRune(softBreaks, r) || unicode.IsSpace(r))

		if !hard && !soft {
			content = true
			if cursor < len(timestamps) {
				if startMS == -1 {
					startMS = timestamps[cursor].StartMS
				}
				endMS = timestamps[cursor].EndMS
				cursor++
			}
		}

		buf = append(buf, r)

		if hard || (soft && len(buf) >= minMergeLength) {
			flush()
		}
	}
	flush()

	return cues, nil
}
