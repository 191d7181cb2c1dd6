package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"unicode"

	"github.com/google/uuid"

	"github.com/video2text/backend/internal/asr"
	"github.com/video2text/backend/internal/db"
	"github.com/video2text/backend/internal/db/models"
	"github.com/video2text/backend/internal/job"
	"github.com/video2text/backend/internal/media"
)

// Service runs the transcription pipeline for queued jobs: download the
// audio, convert it to the recognizer's input format, recognize, and store
// the immutable transcript. Subtitle segmentation happens later, per
// request, against the stored transcript.
type Service struct {
	database   *db.Database
	recognizer asr.Recognizer
	tools      media.Tools
	workDir    string
	language   string
	device     string
}

// NewService creates a transcription service around a recognition engine
func NewService(database *db.Database, recognizer asr.Recognizer, tools media.Tools, workDir, language, device string) *Service {
	log.Printf("[transcribe] using %s engine (device=%s)", recognizer.Name(), device)
	return &Service{
		database:   database,
		recognizer: recognizer,
		tools:      tools,
		workDir:    workDir,
		language:   language,
		device:     device,
	}
}

// HandleJob processes one transcribe job end to end
func (s *Service) HandleJob(ctx context.Context, j *job.Job, updateProgress func(float64)) error {
	var params job.TranscribeParams
	if err := json.Unmarshal(j.Params, &params); err != nil {
		return fmt.Errorf("unmarshal params: %w", err)
	}
	language := params.Language
	if language == "" {
		language = s.language
	}

	dir, err := os.MkdirTemp(s.workDir, "video2text-*")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	log.Printf("[transcribe] starting: url=%s language=%s", j.SourceURL, language)

	// Step 1: download audio
	updateProgress(0.05)
	audioPath, err := s.tools.DownloadAudio(ctx, j.SourceURL, dir)
	if err != nil {
		return fmt.Errorf("download audio: %w", err)
	}

	// Step 2: convert to 16kHz mono WAV
	updateProgress(0.30)
	wavPath, err := s.tools.ConvertToWAV(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("convert audio: %w", err)
	}
	media.Cleanup(audioPath)

	// Step 3: probe duration (metadata only, failure is not fatal)
	durationSec, err := s.tools.ProbeDuration(ctx, wavPath)
	if err != nil {
		log.Printf("[transcribe] probe duration: %v", err)
	}

	// Step 4: recognize
	updateProgress(0.40)
	result, err := s.recognizer.Recognize(ctx, asr.RecognizeRequest{
		AudioPath: wavPath,
		Language:  language,
		Device:    s.device,
	}, scaleProgress(updateProgress, 0.40, 0.95))
	if err != nil {
		return fmt.Errorf("recognize: %w", err)
	}

	// Step 5: store the transcript
	timestamps, err := json.Marshal(result.Timestamps)
	if err != nil {
		return fmt.Errorf("marshal timestamps: %w", err)
	}
	transcript := &models.Transcript{
		ID:          uuid.New().String(),
		SourceURL:   j.SourceURL,
		Language:    resultLanguage(result, language),
		Text:        result.Text,
		Timestamps:  timestamps,
		DurationSec: durationSec,
	}
	if err := s.database.CreateTranscript(transcript); err != nil {
		return fmt.Errorf("store transcript: %w", err)
	}

	log.Printf("[transcribe] complete: transcript=%s characters=%d", transcript.ID, countContent(result.Text))

	resultJSON, _ := json.Marshal(job.TranscribeResult{
		TranscriptID: transcript.ID,
		Language:     transcript.Language,
		Characters:   countContent(result.Text),
		DurationSec:  durationSec,
	})
	j.Result = resultJSON

	updateProgress(1.0)
	return nil
}

// scaleProgress maps an engine's 0..1 progress into a slice of the job's range
func scaleProgress(updateProgress func(float64), from, to float64) func(float64) {
	return func(p float64) {
		updateProgress(from + p*(to-from))
	}
}

func resultLanguage(result *asr.Result, requested string) string {
	if result.Language != "" {
		return result.Language
	}
	return requested
}

func countContent(text string) int {
	count := 0
	for _, r := range text {
		if !unicode.IsSpace(r) && !unicode.IsPunct(r) {
			count++
		}
	}
	return count
}
