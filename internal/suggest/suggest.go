// Package suggest asks an LLM for recipes that fit the user's preferences and
// the ingredients they have on hand.
package suggest

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Mesayaaa/Meal-Plan/internal/llm"
	"github.com/Mesayaaa/Meal-Plan/internal/logging"
	"github.com/Mesayaaa/Meal-Plan/internal/recipe"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:embed suggest_prompt.md
var suggestPrompt string

var promptTemplate = template.Must(template.New("suggest").Parse(suggestPrompt))

const (
	agentName      = "Suggest"
	requestTimeout = 60 * time.Second
)

// ErrNoRecipes is returned when the model answers without a usable recipe.
var ErrNoRecipes = errors.New("no recipes suggested")

// Criteria is what a suggestion request is based on.
type Criteria struct {
	DietaryPreferences string
	CuisinePreferences string
	IngredientsOnHand  string
}

func (c Criteria) key() string {
	return strings.ToLower(strings.Join([]string{
		strings.TrimSpace(c.DietaryPreferences),
		strings.TrimSpace(c.CuisinePreferences),
		strings.TrimSpace(c.IngredientsOnHand),
	}, "\x00"))
}

// Service produces recipe suggestions.
type Service struct {
	textGen  llm.TextGenerator
	recorder llm.MetaRecorder
	logger   *zap.Logger
	group    singleflight.Group
}

// NewService creates a Service. recorder may be nil.
func NewService(textGen llm.TextGenerator, recorder llm.MetaRecorder, logger *zap.Logger) *Service {
	logger = logging.OrNop(logger)
	return &Service{textGen: textGen, recorder: recorder, logger: logger}
}

// Suggest returns recipes for c. Identical requests in flight at the same
// time share a single model call.
func (s *Service) Suggest(ctx context.Context, c Criteria) ([]recipe.Recipe, error) {
	ch := s.group.DoChan(c.key(), func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), requestTimeout)
		defer cancel()
		return s.suggest(callCtx, c)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneAll(res.Val.([]recipe.Recipe)), nil
	}
}

func (s *Service) suggest(ctx context.Context, c Criteria) ([]recipe.Recipe, error) {
	start := time.Now()

	prompt, err := buildPrompt(c)
	if err != nil {
		return nil, err
	}

	resp, err := s.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe suggestions: %w", err)
	}
	s.record(ctx, llm.AgentMeta{AgentName: agentName, Usage: resp.Usage, Latency: time.Since(start)})

	recipes, err := parseRecipes(resp.Content)
	if err != nil {
		return nil, err
	}

	s.logger.Info("recipes suggested",
		zap.Int("count", len(recipes)),
		zap.Duration("latency", time.Since(start)),
	)
	return recipes, nil
}

func (s *Service) record(ctx context.Context, meta llm.AgentMeta) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordMeta(ctx, meta); err != nil {
		s.logger.Warn("failed to record metrics", zap.String("agent", meta.AgentName), zap.Error(err))
	}
}

func buildPrompt(c Criteria) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, c); err != nil {
		return "", fmt.Errorf("failed to build suggestion prompt: %w", err)
	}
	return buf.String(), nil
}

func parseRecipes(content string) ([]recipe.Recipe, error) {
	var out struct {
		Recipes []recipe.Recipe `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSON(content)), &out); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}

	recipes := make([]recipe.Recipe, 0, len(out.Recipes))
	for _, r := range out.Recipes {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			continue
		}
		if r.Image == "" {
			r.Image = recipe.ImageFor(r.Name, r.Cuisine)
		}
		recipes = append(recipes, r)
	}
	if len(recipes) == 0 {
		return nil, ErrNoRecipes
	}
	return recipes, nil
}

func cloneAll(in []recipe.Recipe) []recipe.Recipe {
	out := make([]recipe.Recipe, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}
