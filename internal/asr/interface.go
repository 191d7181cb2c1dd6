package asr

import "context"

// RecognizeRequest is the input for one recognition run
type RecognizeRequest struct {
	AudioPath string // absolute path to a 16kHz mono WAV file
	Language  string // "auto", "zh", "en", etc.
	Device    string // "cuda" or "cpu" hint for the engine
}

// Recognizer is the common interface for all speech recognition engines
type Recognizer interface {
	// Recognize converts audio into punctuated text with per-character timestamps
	Recognize(ctx context.Context, req RecognizeRequest, updateProgress func(float64)) (*Result, error)
	// Name returns the engine name
	Name() string
}
