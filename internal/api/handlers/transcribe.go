package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/video2text/backend/internal/config"
	"github.com/video2text/backend/internal/job"
)

type TranscribeHandler struct {
	queue           *job.JobQueue
	defaultLanguage string
	defaultMinMerge int
}

func NewTranscribeHandler(queue *job.JobQueue, defaultLanguage string, defaultMinMerge int) *TranscribeHandler {
	return &TranscribeHandler{
		queue:           queue,
		defaultLanguage: defaultLanguage,
		defaultMinMerge: defaultMinMerge,
	}
}

type transcribeRequest struct {
	URL            string `json:"url"`
	Language       string `json:"language"`
	ModelGroup     string `json:"model_group"`
	MinMergeLength int    `json:"min_merge_length"`
}

// Transcribe enqueues a transcription job for a video URL
func (h *TranscribeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.URL == "" {
		jsonError(w, "url is required", http.StatusBadRequest)
		return
	}
	parsed, err := url.Parse(req.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		jsonError(w, "url must be an http(s) video link", http.StatusBadRequest)
		return
	}

	language := req.Language
	if language == "" {
		language = h.defaultLanguage
	}
	minMerge := h.defaultMinMerge
	if req.MinMergeLength != 0 {
		minMerge = config.ClampMinMergeLength(req.MinMergeLength)
	}

	j, err := h.queue.Enqueue(job.JobTranscribe, req.URL, job.TranscribeParams{
		Language:       language,
		ModelGroup:     req.ModelGroup,
		MinMergeLength: minMerge,
	})
	if err != nil {
		jsonError(w, "failed to enqueue job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	jsonResponse(w, j, http.StatusAccepted)
}
