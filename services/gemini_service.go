package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// mealAnalysisPrompt asks the model for the exact JSON shape the ledger
// stores. The model's output is not schema-enforced; every field must be
// treated as optional when parsing.
const mealAnalysisPrompt = `Analyze the following food: %q. Provide a detailed JSON response with: total_calories (number, estimated total for the described meal/item), macros (object with protein_g, carbs_g, fat_g in grams), ingredients (array of strings, listing primary ingredients), and warnings (array of strings, specifically noting any common seed oils like soybean, canola, sunflower, corn oil, or artificial preservatives like BHA, BHT, sodium benzoate, nitrates/nitrites if likely present based on the food type). Be as accurate as possible with calorie and macro estimations. If an image is provided, analyze the food in the image. If both text and image are provided, prioritize the image but use text for context if helpful.`

// GeminiService calls the generative-language generateContent endpoint.
// It is treated as an untrusted oracle: one attempt, no retry, failures
// surfaced verbatim.
type GeminiService struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewGeminiService() *GeminiService {
	base := os.Getenv("GEMINI_API_BASE")
	if base == "" {
		base = "https://generativelanguage.googleapis.com"
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}
	return &GeminiService{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// MealAnalysis is the estimate extracted from the model's JSON reply.
// Absent numbers read as 0 and absent arrays as empty.
type MealAnalysis struct {
	TotalCalories float64 `json:"total_calories"`
	Macros        struct {
		ProteinG float64 `json:"protein_g"`
		CarbsG   float64 `json:"carbs_g"`
		FatG     float64 `json:"fat_g"`
	} `json:"macros"`
	Ingredients []string `json:"ingredients"`
	Warnings    []string `json:"warnings"`
}

// AnalyzeMeal submits a description and optional inline image and returns
// the parsed estimate. Transport failures and non-2xx statuses wrap
// ErrEstimationService; a body that cannot be parsed into the expected shape
// returns *MalformedResponseError with a truncated preview.
func (s *GeminiService) AnalyzeMeal(ctx context.Context, description, imageBase64, mimeType string) (*MealAnalysis, error) {
	prompt := description
	if prompt == "" {
		prompt = "the food in the image"
	}
	parts := []geminiPart{{Text: fmt.Sprintf(mealAnalysisPrompt, prompt)}}
	if imageBase64 != "" {
		if mimeType == "" {
			mimeType = "image/png"
		}
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{MimeType: mimeType, Data: imageBase64},
		})
	}

	payload := geminiRequest{Contents: []geminiContent{{Role: "user", Parts: parts}}}
	payload.GenerationConfig.ResponseMimeType = "application/json"

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generateContent payload: %w", err)
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create generateContent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEstimationService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrEstimationService, err)
	}
	if resp.StatusCode != http.StatusOK {
		var gr geminiResponse
		if json.Unmarshal(body, &gr) == nil && gr.Error != nil && gr.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrEstimationService, gr.Error.Message)
		}
		return nil, fmt.Errorf("%w: status %d", ErrEstimationService, resp.StatusCode)
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, &MalformedResponseError{Preview: rawPreview(body)}
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, &MalformedResponseError{Preview: rawPreview(body)}
	}

	raw := gr.Candidates[0].Content.Parts[0].Text
	var out MealAnalysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &MalformedResponseError{Preview: rawPreview([]byte(raw))}
	}

	out.TotalCalories = clampNonNegative(out.TotalCalories)
	out.Macros.ProteinG = clampNonNegative(out.Macros.ProteinG)
	out.Macros.CarbsG = clampNonNegative(out.Macros.CarbsG)
	out.Macros.FatG = clampNonNegative(out.Macros.FatG)
	if out.Ingredients == nil {
		out.Ingredients = []string{}
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	return &out, nil
}

func rawPreview(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
