package srt

import (
	"fmt"
	"strconv"
	"strings"
)

// Timestamp is the time span of one recognized text unit, in milliseconds.
type Timestamp struct {
	StartMS int64 `json:"start_ms"`
	EndMS   int64 `json:"end_ms"`
}

// Cue is a single timed subtitle entry.
type Cue struct {
	Index   int    `json:"index"`
	StartMS int64  `json:"start_ms"`
	EndMS   int64  `json:"end_ms"`
	Text    string `json:"text"`
}

// FormatTimestamp renders a millisecond offset as an SRT timecode (HH:MM:SS,mmm).
func FormatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	hours := ms / 3600000
	minutes := (ms % 3600000) / 60000
	seconds := (ms % 60000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, ms%1000)
}

// Render serializes cues as SubRip text in index order: index line,
// timecode line, text line, blank line per cue.
func Render(cues []Cue) string {
	var sb strings.Builder
	for _, cue := range cues {
		sb.WriteString(strconv.Itoa(cue.Index))
		sb.WriteString("\n")
		sb.WriteString(FormatTimestamp(cue.StartMS))
		sb.WriteString(" --> ")
		sb.WriteString(FormatTimestamp(cue.EndMS))
		sb.WriteString("\n")
		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
