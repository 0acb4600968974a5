package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/kondate-app/menu-helper/internal/config"
	"github.com/kondate-app/menu-helper/internal/domain"
	apperrors "github.com/kondate-app/menu-helper/internal/errors"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"
)

// AIService turns a normalized generation request into a schema-validated
// daily plan using an external LLM. Calls are single-shot with a fixed
// timeout: no retry, no backoff, no caching.
type AIService struct {
	geminiClient *genai.Client
	openaiClient *openai.Client
	model        string
	timeout      time.Duration
	useOpenAI    bool
}

func NewAIService(ctx context.Context, cfg config.AIConfig) (*AIService, error) {
	s := &AIService{
		model:     cfg.GeminiModel,
		timeout:   cfg.Timeout,
		useOpenAI: cfg.Provider == "openai",
	}

	if s.useOpenAI {
		s.openaiClient = openai.NewClient(cfg.OpenAIAPIKey)
		return s, nil
	}

	geminiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	s.geminiClient = geminiClient
	return s, nil
}

// SuggestMenu invokes the generator and validates the result against the
// declared output shape. The returned plan's date is always the
// caller-supplied date; whatever the generator put there is discarded.
func (s *AIService) SuggestMenu(ctx context.Context, req domain.GenerationRequest, date string, profile json.RawMessage) (*domain.DailyPlan, error) {
	prompt, err := buildPrompt(req, date, profile)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var raw string
	if s.useOpenAI {
		raw, err = s.generateWithOpenAI(ctx, prompt)
	} else {
		raw, err = s.generateWithGemini(ctx, prompt)
	}
	if err != nil {
		return nil, apperrors.NewGenerationError(err)
	}

	plan, err := decodePlan(raw)
	if err != nil {
		return nil, err
	}
	plan.Date = date
	return plan, nil
}

func (s *AIService) generateWithGemini(ctx context.Context, prompt string) (string, error) {
	model := s.geminiClient.GenerativeModel(s.model)
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   planSchema(),
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type")
	}
	return string(text), nil
}

func (s *AIService) generateWithOpenAI(ctx context.Context, prompt string) (string, error) {
	resp, err := s.openaiClient.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4o,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

// decodePlan parses the generator payload and checks it against the output
// contract. Anything malformed is a schema violation, not a transport
// failure; the payload is never trusted just because it parsed.
func decodePlan(raw string) (*domain.DailyPlan, error) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return nil, apperrors.NewSchemaError("no JSON object in response")
	}

	var plan domain.DailyPlan
	if err := json.Unmarshal([]byte(jsonStr), &plan); err != nil {
		return nil, apperrors.NewSchemaError(err.Error())
	}

	if err := validatePlan(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func validatePlan(plan *domain.DailyPlan) error {
	if strings.TrimSpace(plan.Rationale) == "" {
		return apperrors.NewSchemaError("missing rationale")
	}
	if plan.Meals == nil {
		return apperrors.NewSchemaError("missing meals")
	}
	if plan.TotalCalorieKcal < 0 {
		return apperrors.NewSchemaError("negative total calorie")
	}
	for i, meal := range plan.Meals {
		if strings.TrimSpace(meal.Label) == "" {
			return apperrors.NewSchemaError(fmt.Sprintf("meal %d: missing label", i))
		}
		if !meal.Kind.Valid() {
			return apperrors.NewSchemaError(fmt.Sprintf("meal %d: kind %q outside {log,target}", i, meal.Kind))
		}
		for j, dish := range meal.Dishes {
			if strings.TrimSpace(dish.Name) == "" {
				return apperrors.NewSchemaError(fmt.Sprintf("meal %d dish %d: missing name", i, j))
			}
			if dish.CalorieKcal < 0 {
				return apperrors.NewSchemaError(fmt.Sprintf("meal %d dish %d: negative calorie", i, j))
			}
			for _, n := range dish.Nutrients {
				if strings.TrimSpace(n.Name) == "" || strings.TrimSpace(n.Unit) == "" {
					return apperrors.NewSchemaError(fmt.Sprintf("meal %d dish %d: nutrient missing name or unit", i, j))
				}
				if n.Amount < 0 {
					return apperrors.NewSchemaError(fmt.Sprintf("meal %d dish %d: negative nutrient amount", i, j))
				}
			}
		}
	}
	return nil
}

// extractJSON pulls the outermost JSON object out of a response that may be
// wrapped in code fences or stray text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
