package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
)

// ModelGroups are the model bundles the sidecar can preload. The paraformer
// group is the Chinese pipeline the recognizer uses by default: main ASR
// model plus VAD and punctuation restoration.
var ModelGroups = map[string][]string{
	"paraformer": {
		"iic/speech_seaco_paraformer_large_asr_nat-zh-cn-16k-common-vocab8404-pytorch",
		"iic/speech_fsmn_vad_zh-cn-16k-common-pytorch",
		"iic/punc_ct-transformer_zh-cn-common-vocab272727-pytorch",
	},
	"sensevoice": {
		"iic/SenseVoiceSmall",
	},
}

// GroupNames returns the known model group names, sorted
func GroupNames() []string {
	names := make([]string, 0, len(ModelGroups))
	for name := range ModelGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrefetchModels asks the sidecar to snapshot-download a model group so the
// first transcription does not stall on model downloads. The sidecar skips
// models already in its local cache.
func (c *FunASRClient) PrefetchModels(ctx context.Context, group string) error {
	models, ok := ModelGroups[group]
	if !ok {
		return fmt.Errorf("unknown model group: %s (available: %v)", group, GroupNames())
	}

	payload, err := json.Marshal(map[string][]string{"models": models})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/models/fetch", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch models: status %d", resp.StatusCode)
	}
	return nil
}
