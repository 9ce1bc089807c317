package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type GeminiClient struct {
	apiKey string
	model  string
	http   *http.Client
}

func NewGeminiClient() *GeminiClient {
	return &GeminiClient{
		apiKey: os.Getenv("GEMINI_API_KEY"),
		model:  os.Getenv("GEMINI_MODEL"),
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

// ParsedMenuItem is one menu item Gemini read off a captured image.
type ParsedMenuItem struct {
	Name      string   `json:"name"`
	Allergens []string `json:"allergens"`
	Certainty float64  `json:"certainty"`
}

// --------------------------------------------------
// Allergen extraction from a menu image
// --------------------------------------------------

// ExtractAllergens sends a captured menu image to Gemini and parses
// the JSON-only response into menu items with allergen tags.
func (g *GeminiClient) ExtractAllergens(
	ctx context.Context,
	image []byte,
	mimeType string,
) ([]ParsedMenuItem, error) {

	if len(image) == 0 {
		return nil, errors.New("empty image")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": BuildAllergenPrompt()},
					{
						"inline_data": map[string]string{
							"mime_type": mimeType,
							"data":      base64.StdEncoding.EncodeToString(image),
						},
					},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 2048,
		},
	}

	output, err := g.generate(ctx, payload)
	if err != nil {
		return nil, err
	}

	// Gemini must return a bare JSON array per the prompt contract.
	if !json.Valid([]byte(output)) {
		return nil, errors.New("gemini returned non-json output")
	}

	var items []ParsedMenuItem
	if err := json.Unmarshal([]byte(output), &items); err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].Allergens == nil {
			items[i].Allergens = []string{}
		}
		if items[i].Certainty < 0 {
			items[i].Certainty = 0
		}
		if items[i].Certainty > 1 {
			items[i].Certainty = 1
		}
	}

	return items, nil
}

// --------------------------------------------------
// Menu summarization
// --------------------------------------------------

// SummarizeMenu produces an allergy-aware summary of scraped menu
// item texts.
func (g *GeminiClient) SummarizeMenu(ctx context.Context, items []string) (string, error) {
	if len(items) == 0 {
		return "No menu items available to summarize.", nil
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": BuildSummaryPrompt(items)},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.4,
			"maxOutputTokens": 1024,
		},
	}

	return g.generate(ctx, payload)
}

// --------------------------------------------------
// REST plumbing
// --------------------------------------------------
func (g *GeminiClient) generate(ctx context.Context, payload map[string]any) (string, error) {
	if g.apiKey == "" {
		return "", errors.New("missing GEMINI_API_KEY")
	}
	if g.model == "" {
		return "", errors.New("missing GEMINI_MODEL")
	}

	url := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s",
		g.model,
		g.apiKey,
	)

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini api error: %s", string(raw))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return "", err
	}

	if len(result.Candidates) == 0 ||
		len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty gemini response")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
