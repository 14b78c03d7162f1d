package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"insureval/src/log"
)

const (
	DefaultURL = "http://localhost:11434/api"
)

// ChatMessage is a single role-tagged message in a chat request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the request structure for chat completion
type ChatRequest struct {
	Model    string                 `json:"model"`
	Messages []ChatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

// ChatResponse represents one response line from chat completion
type ChatResponse struct {
	Model   string      `json:"model"`
	Message ChatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// ModelInfo describes one locally available model
type ModelInfo struct {
	Name string `json:"name"`
}

type tagsResponse struct {
	Models []ModelInfo `json:"models"`
}

// Client represents an Ollama API client
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Ollama API client
func NewClient(baseURL string, c *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}

	return &Client{
		httpClient: c,
		baseURL:    baseURL,
	}
}

// Chat performs a chat completion with the given message history and
// returns the full assistant message content.
func (c *Client) Chat(ctx context.Context, model string, messages []ChatMessage, options map[string]interface{}) (string, error) {
	reqBody := ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   true,
		Options:  options,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/chat", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error(err, "failed to make request to ollama")
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status %s from ollama: %s", resp.Status, string(body))
	}

	reader := bufio.NewReader(resp.Body)
	var fullResponse strings.Builder

	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			var response ChatResponse
			if err := json.Unmarshal(line, &response); err != nil {
				log.Error(err, "failed to unmarshal response line", "line", string(line))
				return "", fmt.Errorf("error unmarshaling response: %w", err)
			}

			fullResponse.WriteString(response.Message.Content)

			if response.Done {
				return fullResponse.String(), nil
			}
		}

		if err != nil {
			if err == io.EOF {
				return fullResponse.String(), nil
			}
			return "", fmt.Errorf("error reading response: %w", err)
		}
	}
}

// Models lists the models available on the ollama server. Used as a
// reachability probe by the health endpoint.
func (c *Client) Models(ctx context.Context) ([]ModelInfo, error) {
	url := fmt.Sprintf("%s/tags", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s from ollama", resp.Status)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	return tags.Models, nil
}
