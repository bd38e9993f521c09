package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	defaultModel       = "gpt-4.1-mini"
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultTemperature = 0.2
	defaultTimeout     = 30 * time.Second
)

// Dimensions are the affect names the scorer's context table reads, plus a few
// descriptive ones the gallery shows on artwork pages.
var Dimensions = []string{
	"calm", "peaceful", "serene",
	"energetic", "structured", "bold",
	"majestic", "mystical", "raw",
	"playful", "melancholy", "dreamy",
}

// Config describes how the OpenAI client should be initialised.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client offers a thin wrapper around the OpenAI Chat Completions API.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	httpClient  *http.Client
}

// ArtworkBrief is what the model sees of an artwork.
type ArtworkBrief struct {
	Title      string
	Medium     string
	Dimensions string
	Tags       []string
}

// NewClient builds a Client that can profile artworks.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("ai: api key must not be empty")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	temp := cfg.Temperature
	if temp <= 0 {
		temp = defaultTemperature
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	return &Client{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: temp,
		httpClient:  httpClient,
	}, nil
}

// ProfileEmotions asks the model to rate how strongly an artwork evokes each of
// Dimensions. Values are clamped to [0,1]; unknown dimensions are dropped.
func (c *Client) ProfileEmotions(ctx context.Context, brief ArtworkBrief) (map[string]float64, error) {
	title := strings.TrimSpace(brief.Title)
	if title == "" {
		return nil, errors.New("ai: artwork title must not be empty")
	}

	payload := map[string]any{
		"model":       c.model,
		"temperature": c.temperature,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "You are an art curator. Rate the emotional character of artworks and answer in JSON only.",
			},
			{
				"role":    "user",
				"content": buildPrompt(brief),
			},
		},
	}

	content, err := c.performChatCompletion(ctx, payload)
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	decoder := json.NewDecoder(strings.NewReader(stripCodeFence(content)))
	decoder.UseNumber()
	if err := decoder.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ai: parse JSON payload: %w", err)
	}

	return normaliseEmotions(parsed), nil
}

func buildPrompt(brief ArtworkBrief) string {
	tags := "none"
	if len(brief.Tags) > 0 {
		tags = strings.Join(brief.Tags, ", ")
	}
	medium := strings.TrimSpace(brief.Medium)
	if medium == "" {
		medium = "unknown"
	}
	return fmt.Sprintf(`Artwork "%s" (medium: %s, size: %s, style tags: %s).
Return a JSON object whose keys are exactly these emotions: %s.
Each value is a number between 0 and 1 describing how strongly the piece evokes that emotion.
Strict rules: respond with raw JSON, no Markdown, no comments.`,
		strings.TrimSpace(brief.Title), medium, strings.TrimSpace(brief.Dimensions), tags, strings.Join(Dimensions, ", "))
}

func normaliseEmotions(raw map[string]any) map[string]float64 {
	allowed := make(map[string]struct{}, len(Dimensions))
	for _, dim := range Dimensions {
		allowed[dim] = struct{}{}
	}

	scores := make(map[string]float64, len(raw))
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name := strings.ToLower(strings.TrimSpace(key))
		if _, ok := allowed[name]; !ok {
			continue
		}
		value, ok := parseNumeric(raw[key])
		if !ok {
			continue
		}
		scores[name] = clamp(value)
	}
	return scores
}

func parseNumeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case json.Number:
		parsed, err := strconv.ParseFloat(v.String(), 64)
		return parsed, err == nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return parsed, err == nil
	default:
		return 0, false
	}
}

func clamp(value float64) float64 {
	switch {
	case value < 0:
		return 0
	case value > 1:
		return 1
	default:
		return value
	}
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "json")
	return strings.TrimSpace(content)
}

func (c *Client) performChatCompletion(ctx context.Context, payload map[string]any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ai: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: call openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("ai: openai returned status %s", resp.Status)
	}

	var responseData struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&responseData); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}

	if len(responseData.Choices) == 0 {
		return "", errors.New("ai: openai returned no choices")
	}

	content := strings.TrimSpace(responseData.Choices[0].Message.Content)
	content = strings.Trim(content, "`")
	return strings.TrimSpace(content), nil
}
