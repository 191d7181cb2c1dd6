package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ConvertToWAV resamples an audio file to 16kHz mono PCM WAV (the recognizer's
// required input format) next to the source file and returns the output path.
func (t Tools) ConvertToWAV(ctx context.Context, inputPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(filepath.Dir(inputPath), base+"_converted.wav")

	cmd := exec.CommandContext(ctx, t.FFmpeg,
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("ffmpeg: %s: %w", string(output), err)
	}

	return outputPath, nil
}
