package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/video2text/backend/internal/db"
)

// settingsKeys defines which keys are allowed and their display metadata
var settingsKeys = []SettingDef{
	{Key: "asr_url", Label: "FunASR Server URL", Group: "asr", Placeholder: "http://localhost:10095"},
	{Key: "asr_model_group", Label: "Model Group", Group: "asr", Placeholder: "paraformer"},
	{Key: "asr_language", Label: "Default Language", Group: "asr", Placeholder: "auto"},
	{Key: "default_min_merge_length", Label: "Default Merge Threshold", Group: "subtitle", Placeholder: "15"},
	{Key: "ytdlp_path", Label: "yt-dlp Path", Group: "tools", Placeholder: "yt-dlp"},
	{Key: "ffmpeg_path", Label: "FFmpeg Path", Group: "tools", Placeholder: "ffmpeg"},
}

type SettingDef struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Group       string `json:"group"`
	Placeholder string `json:"placeholder"`
}

type SettingsHandler struct {
	database *db.Database
}

func NewSettingsHandler(database *db.Database) *SettingsHandler {
	return &SettingsHandler{database: database}
}

// GetSettings returns all known settings with their current values
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	all, err := h.database.GetAllSettings()
	if err != nil {
		jsonError(w, "failed to load settings", http.StatusInternalServerError)
		return
	}

	type SettingResponse struct {
		SettingDef
		Value    string `json:"value"`
		HasValue bool   `json:"has_value"`
	}

	var result []SettingResponse
	for _, def := range settingsKeys {
		val := all[def.Key]
		result = append(result, SettingResponse{
			SettingDef: def,
			Value:      val,
			HasValue:   val != "",
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// UpdateSettings saves settings from the request body
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var updates map[string]string
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Validate keys — only allow known settings
	allowed := make(map[string]bool)
	for _, def := range settingsKeys {
		allowed[def.Key] = true
	}

	for key, value := range updates {
		if !allowed[key] {
			continue
		}
		if err := h.database.SetSetting(key, value); err != nil {
			jsonError(w, "failed to save setting: "+key, http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
