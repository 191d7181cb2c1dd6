package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
	} `json:"format"`
}

// ProbeDuration returns an audio file's duration in seconds via ffprobe.
func (t Tools) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, t.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	return parseProbeDuration(output)
}

func parseProbeDuration(data []byte) (float64, error) {
	var result probeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return 0, fmt.Errorf("ffprobe output: %w", err)
	}
	if result.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe output: no duration")
	}
	seconds, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", result.Format.Duration, err)
	}
	return seconds, nil
}
