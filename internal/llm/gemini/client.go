package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"intellidocs-backend/internal/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client implements llm.Client using the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new Gemini client.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required")
	}
	timeout := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("GEMINI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float32 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Analyze submits the fixed analysis prompt for the given text and recovers
// the structured result from the model's reply.
func (c *Client) Analyze(ctx context.Context, text string) (llm.Analysis, error) {
	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: llm.BuildPrompt(text)}}},
		},
		GenerationConfig: &generationConfig{Temperature: 0.2},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Analysis{}, fmt.Errorf("%w: marshal request: %v", llm.ErrUnavailable, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return llm.Analysis{}, fmt.Errorf("%w: build request: %v", llm.ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return llm.Analysis{}, fmt.Errorf("%w: call gemini: %v", llm.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Analysis{}, fmt.Errorf("%w: read response: %v", llm.ErrUnavailable, err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return llm.Analysis{}, fmt.Errorf("%w: decode response: %v", llm.ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return llm.Analysis{}, fmt.Errorf("%w: gemini status %d: %s", llm.ErrUnavailable, resp.StatusCode, msg)
	}
	if len(parsed.Candidates) == 0 {
		return llm.Analysis{}, fmt.Errorf("%w: no candidates in response", llm.ErrUnavailable)
	}

	var out strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	return llm.ParseAnalysis(out.String())
}

var _ llm.Client = (*Client)(nil)
