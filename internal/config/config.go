package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Merge threshold bounds for the subtitle slider. The default of 15
// characters matches the UI slider's initial value.
const (
	MinMergeFloor   = 1
	MinMergeCeiling = 200
	MinMergeDefault = 15
)

type Config struct {
	Port          int
	DataPath      string
	DBPath        string
	WorkDir       string
	JWTSecret     string
	AdminUsername string
	AdminPassword string
	CORSOrigins   []string

	ASRURL        string
	ASRModelGroup string
	ASRLanguage   string
	ASRDevice     string // "auto", "cuda" or "cpu"

	DefaultMinMergeLength int

	YTDLPPath   string
	FFmpegPath  string
	FFprobePath string
}

// fileConfig is the optional TOML config file shape. Env vars override
// whatever the file sets.
type fileConfig struct {
	Port          int      `toml:"port"`
	DataPath      string   `toml:"data_path"`
	DBPath        string   `toml:"db_path"`
	WorkDir       string   `toml:"work_dir"`
	JWTSecret     string   `toml:"jwt_secret"`
	AdminUsername string   `toml:"admin_username"`
	AdminPassword string   `toml:"admin_password"`
	CORSOrigins   []string `toml:"cors_origins"`

	ASRURL        string `toml:"asr_url"`
	ASRModelGroup string `toml:"asr_model_group"`
	ASRLanguage   string `toml:"asr_language"`
	ASRDevice     string `toml:"asr_device"`

	DefaultMinMergeLength int `toml:"default_min_merge_length"`

	YTDLPPath   string `toml:"ytdlp_path"`
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
}

// Load builds the configuration from an optional TOML file plus environment
// variables. An empty path skips the file.
func Load(path string) (*Config, error) {
	var file fileConfig
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found", path)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	dataPath := firstOf(os.Getenv("DATA_PATH"), file.DataPath, "/data")

	cfg := &Config{
		Port:          envInt("PORT", firstIntOf(file.Port, 8080)),
		DataPath:      dataPath,
		DBPath:        firstOf(os.Getenv("DB_PATH"), file.DBPath, dataPath+"/video2text.db"),
		WorkDir:       firstOf(os.Getenv("WORK_DIR"), file.WorkDir, os.TempDir()),
		AdminUsername: firstOf(os.Getenv("ADMIN_USERNAME"), file.AdminUsername, "admin"),
		AdminPassword: firstOf(os.Getenv("ADMIN_PASSWORD"), file.AdminPassword, "admin"),

		ASRURL:        firstOf(os.Getenv("ASR_URL"), file.ASRURL, "http://localhost:10095"),
		ASRModelGroup: firstOf(os.Getenv("ASR_MODEL_GROUP"), file.ASRModelGroup, "paraformer"),
		ASRLanguage:   firstOf(os.Getenv("ASR_LANGUAGE"), file.ASRLanguage, "auto"),
		ASRDevice:     firstOf(os.Getenv("ASR_DEVICE"), file.ASRDevice, "auto"),

		DefaultMinMergeLength: ClampMinMergeLength(envInt("DEFAULT_MIN_MERGE_LENGTH", firstIntOf(file.DefaultMinMergeLength, MinMergeDefault))),

		YTDLPPath:   firstOf(os.Getenv("YTDLP_PATH"), file.YTDLPPath, "yt-dlp"),
		FFmpegPath:  firstOf(os.Getenv("FFMPEG_PATH"), file.FFmpegPath, "ffmpeg"),
		FFprobePath: firstOf(os.Getenv("FFPROBE_PATH"), file.FFprobePath, "ffprobe"),
	}

	// JWT secret: require explicit setting or generate random
	cfg.JWTSecret = firstOf(os.Getenv("JWT_SECRET"), file.JWTSecret)
	if cfg.JWTSecret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("generate random JWT secret: %w", err)
		}
		cfg.JWTSecret = hex.EncodeToString(b)
		log.Println("WARNING: JWT_SECRET not set, using random secret. Sessions will not survive restarts. Set JWT_SECRET for persistent sessions.")
	}

	// CORS origins: comma-separated env list, file list, or "*"
	cfg.CORSOrigins = []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitOrigins(v)
	} else if len(file.CORSOrigins) > 0 {
		cfg.CORSOrigins = file.CORSOrigins
	}

	return cfg, nil
}

// ClampMinMergeLength forces a merge threshold into the sane range; the
// segmentation engine itself rejects non-positive values outright.
func ClampMinMergeLength(v int) int {
	if v < MinMergeFloor {
		return MinMergeFloor
	}
	if v > MinMergeCeiling {
		return MinMergeCeiling
	}
	return v
}

func splitOrigins(v string) []string {
	parts := strings.Split(v, ",")
	origins := make([]string, 0, len(parts))
	for _, o := range parts {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstIntOf(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
