// Package suggest asks a generative text endpoint for candidate wording.
// Everything it returns is a suggestion a person must choose to apply.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/osmakqa/riskandopportunitiesregistry-sub000/models"
)

var (
	ErrUnavailable = errors.New("suggestions are not configured")
	ErrUpstream    = errors.New("suggestion service failed")
)

// maxSuggestions caps how many candidates are returned.
const maxSuggestions = 5

// Client calls a Gemini-style generateContent endpoint. A nil or
// unconfigured client returns ErrUnavailable.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
}

func NewClient(endpoint, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.endpoint != "" && c.model != ""
}

// Context describes the entry the suggestions are for.
type Context struct {
	Type        models.ItemType `json:"type"`
	Section     string          `json:"section"`
	Process     string          `json:"process"`
	Description string          `json:"description,omitempty"`
}

// PlanSuggestion is a candidate action plan draft.
type PlanSuggestion struct {
	Strategy          models.Strategy `json:"strategy"`
	Description       string          `json:"description"`
	ResponsiblePerson string          `json:"responsiblePerson,omitempty"`
}

// Descriptions proposes wordings for the entry's description.
func (c *Client) Descriptions(ctx context.Context, in Context) ([]string, error) {
	text, err := c.generate(ctx, descriptionPrompt(in))
	if err != nil {
		return nil, err
	}
	var raw []string
	if err := decodeArray(text, &raw); err != nil {
		return nil, err
	}
	out := []string{}
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
		if len(out) == maxSuggestions {
			break
		}
	}
	return out, nil
}

// ActionPlans proposes plan drafts. Candidates with a strategy the entry
// type does not allow are dropped.
func (c *Client) ActionPlans(ctx context.Context, in Context) ([]PlanSuggestion, error) {
	text, err := c.generate(ctx, actionPlanPrompt(in))
	if err != nil {
		return nil, err
	}
	var raw []PlanSuggestion
	if err := decodeArray(text, &raw); err != nil {
		return nil, err
	}
	out := []PlanSuggestion{}
	for _, p := range raw {
		p.Strategy = models.Strategy(strings.ToUpper(strings.TrimSpace(string(p.Strategy))))
		p.Description = strings.TrimSpace(p.Description)
		if p.Description == "" || !in.Type.AllowsStrategy(p.Strategy) {
			continue
		}
		out = append(out, p)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrUnavailable
	}
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	var sb strings.Builder
	for _, cand := range gr.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: empty response", ErrUpstream)
	}
	return sb.String(), nil
}

// decodeArray pulls the first JSON array out of model text, which may be
// wrapped in prose or code fences.
func decodeArray(text string, v interface{}) error {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end < start {
		return fmt.Errorf("%w: no JSON array in response", ErrUpstream)
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: malformed suggestions: %v", ErrUpstream, err)
	}
	return nil
}
