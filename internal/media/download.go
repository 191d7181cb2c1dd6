package media

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// DownloadAudio fetches the best audio stream of a video URL into dir as a
// 16kHz MP3 via yt-dlp and returns the downloaded file's path. YouTube and
// Bilibili URLs are the usual inputs but anything yt-dlp supports works.
func (t Tools) DownloadAudio(ctx context.Context, url, dir string) (string, error) {
	outTemplate := filepath.Join(dir, "audio.%(ext)s")

	cmd := exec.CommandContext(ctx, t.YTDLP,
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"--postprocessor-args", "-ar 16000",
		"--no-playlist",
		"-o", outTemplate,
		url,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("yt-dlp: %s: %w", string(output), err)
	}

	// The FFmpegExtractAudio postprocessor always lands on .mp3.
	return filepath.Join(dir, "audio.mp3"), nil
}
