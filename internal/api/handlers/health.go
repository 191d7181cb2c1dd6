package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/video2text/backend/internal/asr"
)

type HealthHandler struct {
	asrClient *asr.FunASRClient
	device    string
}

func NewHealthHandler(asrClient *asr.FunASRClient, device string) *HealthHandler {
	return &HealthHandler{asrClient: asrClient, device: device}
}

// Health reports backend liveness and whether the ASR sidecar is reachable
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status": "ok",
		"device": h.device,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if asrDevice, err := h.asrClient.Health(ctx); err != nil {
		resp["asr"] = "unreachable"
	} else {
		resp["asr"] = "ok"
		if asrDevice != "" {
			resp["asr_device"] = asrDevice
		}
	}

	jsonResponse(w, resp, http.StatusOK)
}
