// Package ai talks to the Gemini generateContent API for symptom triage
// and training plan generation.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/pawtrail/internal/model"
)

// DefaultModel is used when the config does not pin one.
const DefaultModel = "gemini-2.5-flash"

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrNoAPIKey is returned when the client is used without a configured key.
var ErrNoAPIKey = fmt.Errorf("no AI api key configured")

// Client calls the Gemini REST API. A zero api key disables the client;
// every call then fails with ErrNoAPIKey so the UI can explain itself.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a Gemini client. model falls back to DefaultModel.
func NewClient(apiKey, model string, log zerolog.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		log:     log,
	}
}

// Enabled reports whether an api key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

const symptomPrompt = `Analyze the following pet symptoms and provide a preliminary assessment.
You are an AI assistant providing educational information for a pet owner, not a substitute for a veterinarian.
Symptoms: %q

Respond with a single JSON object with these fields:
- "urgency": exactly one of %q, %q or %q.
- "potentialCauses": 2-4 potential causes, most likely first, each a short phrase.
- "redFlags": 2-4 critical symptoms that would require immediate action if observed.
- "clarifyingQuestions": 2-4 questions a vet might ask the owner for more information.`

// AnalyzeSymptoms asks the model for a structured triage of free-text
// symptoms. An unexpected urgency value degrades to UrgencyMonitor rather
// than failing the whole analysis.
func (c *Client) AnalyzeSymptoms(ctx context.Context, symptoms string) (model.SymptomAnalysis, error) {
	prompt := fmt.Sprintf(symptomPrompt, symptoms,
		model.UrgencyImmediate, model.UrgencyContactVet, model.UrgencyMonitor)

	var analysis model.SymptomAnalysis
	if err := c.generateJSON(ctx, prompt, &analysis); err != nil {
		return model.SymptomAnalysis{}, fmt.Errorf("failed to get analysis from AI, try again later: %w", err)
	}
	switch analysis.Urgency {
	case model.UrgencyImmediate, model.UrgencyContactVet, model.UrgencyMonitor:
	default:
		c.log.Warn().Str("urgency", analysis.Urgency).Msg("unexpected urgency level, defaulting to monitor")
		analysis.Urgency = model.UrgencyMonitor
	}
	return analysis, nil
}

// Training goals the plan generator understands.
var trainingGoals = map[string]string{
	"sit":   "teach the dog to sit",
	"stay":  "teach the dog to stay",
	"come":  "teach the dog to come when called",
	"leash": "improve loose-leash walking",
}

const trainingPrompt = `Create a simple, positive-reinforcement-based dog training plan.
Goal: %s.
Dog Breed: %s.
Dog Age: %s.

The plan should be broken down into weekly steps over approximately 4 weeks.
Respond with a single JSON object with these fields:
- "goal": the goal as a short label.
- "duration": total duration, e.g. "4 Weeks".
- "steps": an array of objects with "title" (e.g. "Week 1: Luring the Sit"),
  "description" (a few beginner-friendly sentences) and "duration" (e.g. "Week 1").`

// GenerateTrainingPlan builds a weekly plan for one of the known goals.
func (c *Client) GenerateTrainingPlan(ctx context.Context, goal, breed, age string) (model.TrainingPlan, error) {
	desc, ok := trainingGoals[goal]
	if !ok {
		return model.TrainingPlan{}, fmt.Errorf("unknown training goal %q", goal)
	}
	if breed == "" {
		breed = "unknown"
	}
	if age == "" {
		age = "unknown"
	}
	prompt := fmt.Sprintf(trainingPrompt, desc, breed, age)

	var plan model.TrainingPlan
	if err := c.generateJSON(ctx, prompt, &plan); err != nil {
		return model.TrainingPlan{}, fmt.Errorf("failed to generate a training plan, try again: %w", err)
	}
	return plan, nil
}

// Request and response shapes for the generateContent endpoint, reduced to
// the fields we use.
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
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// generateJSON sends a prompt, extracts the first candidate text, strips
// any markdown code fence around it, and decodes it into out.
func (c *Client) generateJSON(ctx context.Context, prompt string, out any) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}

	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call model: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort close.
			_ = cerr
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if decoded.Error != nil {
		return fmt.Errorf("model error %d: %s", decoded.Error.Code, decoded.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model returned status %d", resp.StatusCode)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("model returned no candidates")
	}

	text := stripFence(decoded.Candidates[0].Content.Parts[0].Text)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}

// stripFence removes a surrounding markdown code fence, which the model
// sometimes emits despite the JSON mime type.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
