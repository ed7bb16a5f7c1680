package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	geminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultGeminiModel = "gemini-2.5-flash"
	defaultTimeout     = 120 * time.Second
)

// GeminiClient calls the Gemini generateContent REST endpoint and decodes
// the returned file mapping.
type GeminiClient struct {
	apiKey  string
	model   string
	httpc   *http.Client
	baseURL string
}

// NewGeminiClient creates a provider for the given API key. An empty model
// selects DefaultGeminiModel.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: defaultTimeout},
		baseURL: geminiBaseURL,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
		TopP            float64 `json:"topP,omitempty"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate implements Generator.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (map[string]string, error) {
	if c.apiKey == "" {
		return nil, &TransportError{Err: fmt.Errorf("gemini API key is not configured")}
	}

	fullPrompt := BuildFilePrompt(EnhancePrompt(prompt))

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: fullPrompt}}},
		},
	}
	reqBody.GenerationConfig.Temperature = 0.4
	reqBody.GenerationConfig.MaxOutputTokens = 16384
	reqBody.GenerationConfig.TopP = 0.9

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Err: fmt.Errorf("gemini API returned status %d: %s", resp.StatusCode, body)}
	}

	var decoded geminiResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("gemini response had no candidates")}
	}

	var text strings.Builder
	for _, part := range decoded.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	return ExtractFiles(text.String())
}

// ExtractFiles pulls the {"files": {...}} JSON object out of raw model
// output, tolerating code fences and prose around the object.
func ExtractFiles(raw string) (map[string]string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &ParseError{Err: fmt.Errorf("no JSON object found in model output")}
	}

	var envelope struct {
		Files map[string]string `json:"files"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &envelope); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("decode file mapping: %w", err)}
	}
	if len(envelope.Files) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("model output contained no files")}
	}
	return envelope.Files, nil
}
