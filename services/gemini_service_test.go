package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGemini(srv *httptest.Server) *GeminiService {
	return &GeminiService{
		apiKey:  "test-key",
		baseURL: srv.URL,
		model:   "test-model",
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// candidateBody wraps inner as the single candidate text part, the shape the
// generateContent endpoint returns on success.
func candidateBody(inner string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": inner}}}},
		},
	})
	return string(b)
}

func TestAnalyzeMeal_ParsesEstimate(t *testing.T) {
	var gotPath string
	var gotReq geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotReq))
		fmt.Fprint(w, candidateBody(`{
			"total_calories": 640,
			"macros": {"protein_g": 42, "carbs_g": 55.5, "fat_g": 21},
			"ingredients": ["chicken", "rice", "broccoli"],
			"warnings": ["may contain canola oil"]
		}`))
	}))
	defer srv.Close()

	out, err := testGemini(srv).AnalyzeMeal(context.Background(), "chicken and rice bowl", "", "")
	require.NoError(t, err)

	assert.Equal(t, float64(640), out.TotalCalories)
	assert.Equal(t, float64(42), out.Macros.ProteinG)
	assert.Equal(t, 55.5, out.Macros.CarbsG)
	assert.Equal(t, float64(21), out.Macros.FatG)
	assert.Equal(t, []string{"chicken", "rice", "broccoli"}, out.Ingredients)
	assert.Equal(t, []string{"may contain canola oil"}, out.Warnings)

	assert.Equal(t, "/v1beta/models/test-model:generateContent?key=test-key", gotPath)
	require.Len(t, gotReq.Contents, 1)
	require.NotEmpty(t, gotReq.Contents[0].Parts)
	assert.Contains(t, gotReq.Contents[0].Parts[0].Text, `"chicken and rice bowl"`)
	assert.Equal(t, "application/json", gotReq.GenerationConfig.ResponseMimeType)
}

func TestAnalyzeMeal_ImageBecomesInlineData(t *testing.T) {
	var gotReq geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotReq))
		fmt.Fprint(w, candidateBody(`{"total_calories": 100}`))
	}))
	defer srv.Close()

	_, err := testGemini(srv).AnalyzeMeal(context.Background(), "", "aGVsbG8=", "image/jpeg")
	require.NoError(t, err)

	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 2)
	// empty description falls back to a generic prompt instead of %q'ing ""
	assert.Contains(t, gotReq.Contents[0].Parts[0].Text, "the food in the image")
	img := gotReq.Contents[0].Parts[1].InlineData
	require.NotNil(t, img)
	assert.Equal(t, "image/jpeg", img.MimeType)
	assert.Equal(t, "aGVsbG8=", img.Data)
}

// Every field in the model's reply is optional; absences read as zero values,
// never as errors.
func TestAnalyzeMeal_MissingFieldsDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, candidateBody(`{"ingredients": ["toast"]}`))
	}))
	defer srv.Close()

	out, err := testGemini(srv).AnalyzeMeal(context.Background(), "toast", "", "")
	require.NoError(t, err)

	assert.Zero(t, out.TotalCalories)
	assert.Zero(t, out.Macros.ProteinG)
	assert.Equal(t, []string{"toast"}, out.Ingredients)
	assert.NotNil(t, out.Warnings)
	assert.Empty(t, out.Warnings)
}

func TestAnalyzeMeal_NegativeNumbersClamped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, candidateBody(`{"total_calories": -200, "macros": {"protein_g": -3}}`))
	}))
	defer srv.Close()

	out, err := testGemini(srv).AnalyzeMeal(context.Background(), "mystery", "", "")
	require.NoError(t, err)

	assert.Zero(t, out.TotalCalories)
	assert.Zero(t, out.Macros.ProteinG)
}

func TestAnalyzeMeal_NonJSONCandidateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, candidateBody("I cannot identify the food in this request."))
	}))
	defer srv.Close()

	_, err := testGemini(srv).AnalyzeMeal(context.Background(), "???", "", "")

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, malformed.Preview, "I cannot identify")
}

func TestAnalyzeMeal_PreviewTruncatedAt200(t *testing.T) {
	long := strings.Repeat("x", 500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, candidateBody(long))
	}))
	defer srv.Close()

	_, err := testGemini(srv).AnalyzeMeal(context.Background(), "long", "", "")

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	assert.Len(t, malformed.Preview, 203)
	assert.True(t, strings.HasSuffix(malformed.Preview, "..."))
}

func TestAnalyzeMeal_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates": []}`)
	}))
	defer srv.Close()

	_, err := testGemini(srv).AnalyzeMeal(context.Background(), "nothing", "", "")

	var malformed *MalformedResponseError
	require.ErrorAs(t, err, &malformed)
}

func TestAnalyzeMeal_APIErrorWrapsEstimationService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "quota exceeded"}}`)
	}))
	defer srv.Close()

	_, err := testGemini(srv).AnalyzeMeal(context.Background(), "burger", "", "")

	require.ErrorIs(t, err, ErrEstimationService)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestAnalyzeMeal_OpaqueStatusStillEstimationService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testGemini(srv).AnalyzeMeal(context.Background(), "burger", "", "")

	require.ErrorIs(t, err, ErrEstimationService)
	assert.Contains(t, err.Error(), "status 502")
}

func TestAnalyzeMeal_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := testGemini(srv).AnalyzeMeal(context.Background(), "burger", "", "")
	assert.True(t, errors.Is(err, ErrEstimationService))
}
