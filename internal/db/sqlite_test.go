package db

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/video2text/backend/internal/db/models"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	d, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestEnsureAdmin(t *testing.T) {
	d := newTestDB(t)

	if err := d.EnsureAdmin("admin", "password"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	// Second call must not create a duplicate.
	if err := d.EnsureAdmin("admin2", "password2"); err != nil {
		t.Fatalf("EnsureAdmin (second): %v", err)
	}

	u, err := d.GetUserByUsername("admin")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u.Role != "admin" {
		t.Errorf("role: %s", u.Role)
	}
	if u.Password == "password" {
		t.Error("password stored in plaintext")
	}
	if _, err := d.GetUserByUsername("admin2"); err == nil {
		t.Error("second admin should not have been created")
	}
}

func TestTranscriptCRUD(t *testing.T) {
	d := newTestDB(t)

	in := &models.Transcript{
		ID:          "t-1",
		SourceURL:   "https://www.youtube.com/watch?v=abc",
		Language:    "zh",
		Text:        "你好。世界！",
		Timestamps:  json.RawMessage(`[[0,100],[100,200],[200,300],[300,400]]`),
		DurationSec: 12.5,
	}
	if err := d.CreateTranscript(in); err != nil {
		t.Fatalf("CreateTranscript: %v", err)
	}

	got, err := d.GetTranscript("t-1")
	if err != nil {
		t.Fatalf("GetTranscript: %v", err)
	}
	if got.Text != in.Text || got.SourceURL != in.SourceURL || got.DurationSec != 12.5 {
		t.Fatalf("transcript mismatch: %+v", got)
	}
	var pairs [][2]int64
	if err := json.Unmarshal(got.Timestamps, &pairs); err != nil {
		t.Fatalf("stored timestamps not valid JSON: %v", err)
	}
	if len(pairs) != 4 {
		t.Fatalf("timestamps: %+v", pairs)
	}

	list, err := d.ListTranscripts()
	if err != nil {
		t.Fatalf("ListTranscripts: %v", err)
	}
	if len(list) != 1 || list[0].ID != "t-1" {
		t.Fatalf("list: %+v", list)
	}
	if list[0].Text != "" {
		t.Error("list should not carry the text payload")
	}

	if err := d.DeleteTranscript("t-1"); err != nil {
		t.Fatalf("DeleteTranscript: %v", err)
	}
	if _, err := d.GetTranscript("t-1"); err == nil {
		t.Fatal("transcript should be gone")
	}
}

func TestSettings(t *testing.T) {
	d := newTestDB(t)

	if got := d.GetSetting("asr_url", "http://fallback"); got != "http://fallback" {
		t.Errorf("default: %s", got)
	}
	if err := d.SetSetting("asr_url", "http://funasr:10095"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := d.SetSetting("asr_url", "http://funasr:20000"); err != nil {
		t.Fatalf("SetSetting (update): %v", err)
	}
	if got := d.GetSetting("asr_url", ""); got != "http://funasr:20000" {
		t.Errorf("updated value: %s", got)
	}

	all, err := d.GetAllSettings()
	if err != nil {
		t.Fatalf("GetAllSettings: %v", err)
	}
	if all["asr_url"] != "http://funasr:20000" {
		t.Errorf("all settings: %v", all)
	}
}
