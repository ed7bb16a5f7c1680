package generation

import (
	"context"
	"fmt"
	"strings"

	ollama "github.com/jmorganca/ollama/api"
)

// DefaultOllamaModel is used when no local model is configured.
const DefaultOllamaModel = "llama3.2"

// OllamaClient generates files with a locally running Ollama model, so the
// tool works without any hosted API key.
type OllamaClient struct {
	model string
}

// NewOllamaClient creates a provider for the given local model name. An
// empty model selects DefaultOllamaModel.
func NewOllamaClient(model string) *OllamaClient {
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaClient{model: strings.TrimPrefix(model, "ollama:")}
}

// Generate implements Generator.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (map[string]string, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("could not create ollama client: %w", err)}
	}

	fullPrompt := BuildFilePrompt(EnhancePrompt(prompt))

	stream := true
	req := &ollama.ChatRequest{
		Model: c.model,
		Messages: []ollama.Message{
			{Role: "user", Content: fullPrompt},
		},
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": 0.4,
			"top_p":       0.9,
		},
	}

	var output strings.Builder
	respFunc := func(res ollama.ChatResponse) error {
		output.WriteString(res.Message.Content)
		return nil
	}

	if err := client.Chat(ctx, req, respFunc); err != nil {
		return nil, &TransportError{Err: fmt.Errorf("ollama chat failed: %w", err)}
	}

	return ExtractFiles(output.String())
}
