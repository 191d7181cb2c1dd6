package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseProbeDuration(t *testing.T) {
	data := []byte(`{"format":{"duration":"123.456","size":"1024"}}`)
	seconds, err := parseProbeDuration(data)
	if err != nil {
		t.Fatalf("parseProbeDuration: %v", err)
	}
	if seconds != 123.456 {
		t.Fatalf("duration: %v", seconds)
	}
}

func TestParseProbeDurationMissing(t *testing.T) {
	for _, data := range []string{`{}`, `{"format":{}}`, `{"format":{"duration":"abc"}}`, `not json`} {
		if _, err := parseProbeDuration([]byte(data)); err == nil {
			t.Fatalf("input %q: expected error", data)
		}
	}
}

func TestCleanup(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "audio.mp3")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// Removes existing files and tolerates missing or empty paths.
	Cleanup(file, filepath.Join(dir, "gone.wav"), "")

	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed, stat err: %v", file, err)
	}
}
