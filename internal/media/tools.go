package media

import (
	"log"
	"os"
)

// Tools holds the external binaries the pipeline shells out to.
type Tools struct {
	YTDLP   string // yt-dlp binary
	FFmpeg  string // ffmpeg binary
	FFprobe string // ffprobe binary
}

// DefaultTools resolves the binaries from PATH
func DefaultTools() Tools {
	return Tools{YTDLP: "yt-dlp", FFmpeg: "ffmpeg", FFprobe: "ffprobe"}
}

// Cleanup removes intermediate files, logging failures instead of returning
// them: a leftover temp file is not worth failing a finished transcription.
func Cleanup(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("[media] cleanup %s: %v", path, err)
		}
	}
}
