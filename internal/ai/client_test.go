package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}

func chatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{APIKey: "  "}); err == nil {
		t.Fatal("expected error for blank api key")
	}
}

func TestProfileEmotionsNormalisesResponse(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["model"] != defaultModel {
			t.Errorf("expected default model, got %v", body["model"])
		}

		content := "```json\n{\"Calm\": 0.7, \"peaceful\": \"0.4\", \"bold\": 1.6, \"sparkly\": 0.9, \"raw\": -0.2}\n```"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse(content))
	})

	scores, err := client.ProfileEmotions(context.Background(), ArtworkBrief{Title: "Urban Silence", Tags: []string{"minimalist"}})
	if err != nil {
		t.Fatalf("ProfileEmotions returned error: %v", err)
	}

	want := map[string]float64{"calm": 0.7, "peaceful": 0.4, "bold": 1, "raw": 0}
	if len(scores) != len(want) {
		t.Fatalf("scores = %v, want %v", scores, want)
	}
	for key, value := range want {
		if scores[key] != value {
			t.Fatalf("scores[%s] = %v, want %v", key, scores[key], value)
		}
	}
}

func TestProfileEmotionsReportsUpstreamFailure(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	if _, err := client.ProfileEmotions(context.Background(), ArtworkBrief{Title: "Dusk"}); err == nil {
		t.Fatal("expected error for upstream failure")
	}
}

func TestProfileEmotionsRequiresTitle(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := client.ProfileEmotions(context.Background(), ArtworkBrief{}); err == nil {
		t.Fatal("expected error for missing title")
	}
}

func TestBuildPromptListsDimensions(t *testing.T) {
	t.Parallel()

	prompt := buildPrompt(ArtworkBrief{Title: "Neon Horizon", Medium: "Oil on Canvas"})
	for _, dim := range Dimensions {
		if !strings.Contains(prompt, dim) {
			t.Fatalf("expected prompt to mention %q", dim)
		}
	}
	if !strings.Contains(prompt, "style tags: none") {
		t.Fatalf("expected prompt to note missing tags: %q", prompt)
	}
}
