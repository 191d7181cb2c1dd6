package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/video2text/backend/internal/asr"
	"github.com/video2text/backend/internal/db"
	"github.com/video2text/backend/internal/db/models"
	"github.com/video2text/backend/internal/subtitle/srt"
)

type TranscriptHandler struct {
	db              *db.Database
	defaultMinMerge int
}

func NewTranscriptHandler(database *db.Database, defaultMinMerge int) *TranscriptHandler {
	return &TranscriptHandler{db: database, defaultMinMerge: defaultMinMerge}
}

// ListTranscripts returns transcript metadata, newest first
func (h *TranscriptHandler) ListTranscripts(w http.ResponseWriter, r *http.Request) {
	transcripts, err := h.db.ListTranscripts()
	if err != nil {
		jsonError(w, "failed to list transcripts: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if transcripts == nil {
		transcripts = []*models.Transcript{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transcripts)
}

// GetTranscript returns one transcript including its full text
func (h *TranscriptHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTranscript(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(t)
}

// DeleteTranscript removes a transcript
func (h *TranscriptHandler) DeleteTranscript(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTranscript(w, r)
	if !ok {
		return
	}
	if err := h.db.DeleteTranscript(t.ID); err != nil {
		jsonError(w, "failed to delete transcript: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type segmentRequest struct {
	MinMergeLength int `json:"min_merge_length"`
}

type segmentResponse struct {
	TranscriptID   string    `json:"transcript_id"`
	MinMergeLength int       `json:"min_merge_length"`
	Cues           []srt.Cue `json:"cues"`
}

// SegmentTranscript recomputes the cue list for a transcript with the given
// merge threshold. A UI slider calls this on every change and replaces its
// cue list wholesale with the response.
func (h *TranscriptHandler) SegmentTranscript(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTranscript(w, r)
	if !ok {
		return
	}

	minMerge := h.defaultMinMerge
	var req segmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.MinMergeLength != 0 {
		minMerge = req.MinMergeLength
	}

	cues, err := h.segment(t, minMerge)
	if err != nil {
		h.segmentError(w, err)
		return
	}

	jsonResponse(w, segmentResponse{
		TranscriptID:   t.ID,
		MinMergeLength: minMerge,
		Cues:           cues,
	}, http.StatusOK)
}

// ExportTranscript serves a transcript as a downloadable file. Supported
// formats: "srt" (segmented subtitles) and "txt" (the raw recognized text).
func (h *TranscriptHandler) ExportTranscript(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTranscript(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "srt"
	}

	switch format {
	case "txt":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="transcription.txt"`)
		fmt.Fprint(w, t.Text)

	case "srt":
		minMerge := h.defaultMinMerge
		if v := r.URL.Query().Get("min_merge_length"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				jsonError(w, "min_merge_length must be an integer", http.StatusBadRequest)
				return
			}
			minMerge = n
		}

		cues, err := h.segment(t, minMerge)
		if err != nil {
			h.segmentError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="subtitle.srt"`)
		fmt.Fprint(w, srt.Render(cues))

	default:
		jsonError(w, "unknown format: "+format, http.StatusBadRequest)
	}
}

// segment rebuilds the cue list from the stored recognition result
func (h *TranscriptHandler) segment(t *models.Transcript, minMergeLength int) ([]srt.Cue, error) {
	var pairs [][2]int64
	if len(t.Timestamps) > 0 {
		if err := json.Unmarshal(t.Timestamps, &pairs); err != nil {
			return nil, fmt.Errorf("stored timestamps: %w", err)
		}
	}
	cues, err := srt.Segment(t.Text, asr.CueTimestamps(pairs), minMergeLength)
	if err != nil {
		return nil, err
	}
	if cues == nil {
		cues = []srt.Cue{}
	}
	return cues, nil
}

func (h *TranscriptHandler) segmentError(w http.ResponseWriter, err error) {
	if errors.Is(err, srt.ErrMinMergeLength) {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	jsonError(w, "failed to segment transcript: "+err.Error(), http.StatusInternalServerError)
}

func (h *TranscriptHandler) loadTranscript(w http.ResponseWriter, r *http.Request) (*models.Transcript, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		jsonError(w, "missing transcript ID", http.StatusBadRequest)
		return nil, false
	}
	t, err := h.db.GetTranscript(id)
	if err != nil {
		jsonError(w, "transcript not found", http.StatusNotFound)
		return nil, false
	}
	return t, true
}
