package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FunASRClient talks to a FunASR sidecar server over HTTP. The sidecar owns
// the models (paraformer ASR + FSMN VAD + CT punctuation) and the GPU; the
// backend only ships audio in and recognition results out.
type FunASRClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFunASRClient creates a client for the FunASR sidecar
func NewFunASRClient(baseURL string) *FunASRClient {
	return &FunASRClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Minute, // inference on long audio can take a while
		},
	}
}

func (c *FunASRClient) Name() string {
	return "funasr"
}

// Recognize uploads a WAV file to the sidecar and parses the inference result
func (c *FunASRClient) Recognize(ctx context.Context, req RecognizeRequest, updateProgress func(float64)) (*Result, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	audioFile, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer audioFile.Close()

	part, err := writer.CreateFormFile("file", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audioFile); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}

	writer.WriteField("return_timestamp", "true")
	if req.Language != "" && req.Language != "auto" {
		writer.WriteField("language", req.Language)
	}
	if req.Device != "" {
		writer.WriteField("device", req.Device)
	}
	writer.Close()

	updateProgress(0.05)

	url := c.baseURL + "/recognize"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	log.Printf("[asr] sending request to %s (audio: %s)", url, req.AudioPath)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("funasr request: %w", err)
	}
	defer resp.Body.Close()

	updateProgress(0.9)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("funasr error (status %d): %s", resp.StatusCode, string(body))
	}

	result, err := ParseResult(body)
	if err != nil {
		return nil, err
	}

	updateProgress(0.95)
	return result, nil
}

// Health checks whether the sidecar is up and reports its active device
func (c *FunASRClient) Health(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("funasr health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("funasr health: status %d", resp.StatusCode)
	}

	var status struct {
		Device string `json:"device"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return "", fmt.Errorf("funasr health: %w", err)
	}
	return status.Device, nil
}
