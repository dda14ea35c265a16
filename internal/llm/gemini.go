package llm

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
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.0-flash"
)

// GeminiClient calls the Google generateContent API.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client

	stats *LatencyStats
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		httpClient: &http.Client{
			Timeout: 180 * time.Second,
		},
		stats: NewLatencyStats(time.Hour),
	}
}

// WithBaseURL overrides the API base URL.
func (c *GeminiClient) WithBaseURL(u string) *GeminiClient {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		Temperature      float64 `json:"temperature"`
		TopP             float64 `json:"topP,omitempty"`
		TopK             int     `json:"topK,omitempty"`
		MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
		ResponseMimeType string  `json:"responseMimeType,omitempty"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Complete sends one generateContent call and returns the first candidate's text.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	greq := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
	}
	if req.System != "" {
		greq.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	greq.GenerationConfig.Temperature = req.Temperature
	greq.GenerationConfig.TopP = 0.95
	greq.GenerationConfig.TopK = 64
	greq.GenerationConfig.MaxOutputTokens = req.MaxTokens
	if greq.GenerationConfig.MaxOutputTokens <= 0 {
		greq.GenerationConfig.MaxOutputTokens = defaultMaxTokens
	}
	greq.GenerationConfig.ResponseMimeType = "text/plain"

	body, err := json.Marshal(greq)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	c.stats.Record(time.Since(start).Milliseconds())

	if retryableStatus(resp.StatusCode) {
		return "", &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("gemini api status %d: %s", resp.StatusCode, truncate(string(respBody), 500))
		}
		return "", fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("gemini error %d %s: %s", apiResp.Error.Code, apiResp.Error.Status, apiResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini api status %d: %s", resp.StatusCode, truncate(string(respBody), 500))
	}
	if len(apiResp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var out strings.Builder
	for _, part := range apiResp.Candidates[0].Content.Parts {
		out.WriteString(part.Text)
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text (finish reason %s)", apiResp.Candidates[0].FinishReason)
	}
	return out.String(), nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.model
}

// Close releases resources.
func (c *GeminiClient) Close() {
	c.httpClient.CloseIdleConnections()
}

// Stats returns the rolling latency window for this client.
func (c *GeminiClient) Stats() *LatencyStats {
	return c.stats
}
