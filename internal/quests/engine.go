package quests

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/qri-io/jsonschema"

	"github.com/communityforge/sprint/internal/config"
	"github.com/communityforge/sprint/pkg/models"
	"github.com/communityforge/sprint/pkg/ollama"
)

// questSchema constrains what the model may hand back for the third
// micro-quest. Anything that fails validation falls back to static content.
const questSchema = `{
  "type": "object",
  "required": ["title", "instructions"],
  "properties": {
    "title": {"type": "string", "minLength": 1, "maxLength": 200},
    "instructions": {"type": "string", "minLength": 1, "maxLength": 2000}
  }
}`

const questPrompt = `Create ONE short micro-quest for the '{{.Track}}' track of a community onboarding sprint. It must take under 10 minutes and yield a shareable artifact (text link, small image, tx hash, or gist). Respond with valid JSON only: {"title":"...","instructions":"..."}`

const trackPrompt = `Pick exactly one track for this participant profile from: {{.Tracks}}. Respond with valid JSON only: {"track":"..."}. Profile: {{.Profile}}`

// Engine generates track-specific content through an Ollama model.
type Engine struct {
	client *ollama.Client
	cfg    config.EngineConfig
	schema *jsonschema.Schema
}

// NewEngine compiles the response schema and wraps the client. The client
// is required; callers without one should construct a Provider with a nil
// engine instead.
func NewEngine(client *ollama.Client, cfg config.EngineConfig) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("ollama client is required")
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(questSchema), rs); err != nil {
		return nil, fmt.Errorf("compile quest schema: %w", err)
	}

	return &Engine{client: client, cfg: cfg, schema: rs}, nil
}

// GenerateQuest asks the model for one track-specific micro-quest and
// validates the response before accepting it.
func (e *Engine) GenerateQuest(ctx context.Context, track string) (*models.Quest, error) {
	prompt, err := ollama.RenderTemplate(questPrompt, map[string]any{"Track": track})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	ctxReq, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	out, err := e.client.Generate(ctxReq, e.cfg.Model, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	j := extractJSON(out.Text)
	if j == "" {
		return nil, fmt.Errorf("no JSON object found in response")
	}

	verrs, err := e.schema.ValidateBytes(ctxReq, []byte(j))
	if err != nil {
		return nil, fmt.Errorf("schema validate: %w", err)
	}
	if len(verrs) > 0 {
		return nil, fmt.Errorf("response failed schema validation: %v", verrs[0].Message)
	}

	var q models.Quest
	if err := json.Unmarshal([]byte(j), &q); err != nil {
		return nil, fmt.Errorf("unmarshal quest: %w", err)
	}
	return &q, nil
}

// SuggestTrack asks the model to pick one of the fixed tracks from a
// profile. Out-of-enumeration answers are rejected.
func (e *Engine) SuggestTrack(ctx context.Context, profile *models.User) (string, error) {
	pb, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("marshal profile: %w", err)
	}
	prompt, err := ollama.RenderTemplate(trackPrompt, map[string]any{
		"Tracks":  strings.Join(models.Tracks, ", "),
		"Profile": string(pb),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	ctxReq, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	out, err := e.client.Generate(ctxReq, e.cfg.Model, prompt)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	j := extractJSON(out.Text)
	if j == "" {
		return "", fmt.Errorf("no JSON object found in response")
	}

	var resp struct {
		Track string `json:"track"`
	}
	if err := json.Unmarshal([]byte(j), &resp); err != nil {
		return "", fmt.Errorf("unmarshal track: %w", err)
	}
	t := strings.TrimSpace(resp.Track)
	if !models.ValidTrack(t) {
		return "", fmt.Errorf("model picked unknown track %q", t)
	}
	return t, nil
}

// extractJSON returns the first top-level JSON object embedded in s.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
