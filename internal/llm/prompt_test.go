package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/floorsight/floorsight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChatPromptEmbedsAnalysisVerbatim(t *testing.T) {
	analysis := domain.FloorPlanAnalysis{
		Scores: domain.ScoreSet{Lighting: 40, Space: 70, Flow: 65, Accessibility: 55},
		Recommendations: []domain.Recommendation{
			{Area: "kitchen", Issue: "poor lighting", Suggestion: "add lighting to kitchen", Priority: domain.PriorityHigh},
		},
	}

	prompt, err := BuildChatPrompt(analysis)
	require.NoError(t, err)

	serialized, err := json.Marshal(analysis)
	require.NoError(t, err)

	// The grounding contract: the serialized analysis appears verbatim.
	assert.Contains(t, prompt, string(serialized))
	assert.Contains(t, prompt, "add lighting to kitchen")
}

func TestExtractJSON(t *testing.T) {
	want := `{"scores":{"lighting":80,"space":75,"flow":70,"accessibility":60},"recommendations":[]}`

	tests := []struct {
		name    string
		content string
	}{
		{"bare json", want},
		{"json fence", "```json\n" + want + "\n```"},
		{"plain fence", "```\n" + want + "\n```"},
		{"surrounding prose", "Here is the critique:\n" + want + "\nLet me know if you need more."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, want, ExtractJSON(tt.content))
		})
	}
}

func TestParseAnalysis(t *testing.T) {
	content := "```json\n" + `{
		"scores": {"lighting": 82, "space": 74, "flow": 68, "accessibility": 91},
		"recommendations": [
			{"area": "entry", "issue": "cramped", "suggestion": "remove closet", "priority": "medium"}
		]
	}` + "\n```"

	analysis, err := ParseAnalysis(content)
	require.NoError(t, err)
	assert.Equal(t, 82, analysis.Scores.Lighting)
	assert.Equal(t, 91, analysis.Scores.Accessibility)
	require.Len(t, analysis.Recommendations, 1)
	assert.Equal(t, domain.PriorityMedium, analysis.Recommendations[0].Priority)
}

func TestParseAnalysisRejectsOutOfRangeScore(t *testing.T) {
	_, err := ParseAnalysis(`{"scores":{"lighting":120,"space":50,"flow":50,"accessibility":50},"recommendations":[]}`)
	assert.ErrorIs(t, err, ErrInvalidAnalysis)
}

func TestParseAnalysisRejectsMalformedJSON(t *testing.T) {
	_, err := ParseAnalysis(`the image shows a cat, not a floor plan`)
	assert.ErrorIs(t, err, ErrInvalidAnalysis)
}

func TestParseAnalysisSentinel(t *testing.T) {
	analysis, err := ParseAnalysis(`{"scores":{"lighting":0,"space":0,"flow":0,"accessibility":0},"recommendations":[]}`)
	require.NoError(t, err)
	assert.True(t, analysis.IsSentinel())
}

func TestAnalysisPromptSpellsOutTheContract(t *testing.T) {
	assert.True(t, strings.Contains(AnalysisPrompt, `"lighting"`))
	assert.True(t, strings.Contains(AnalysisPrompt, `"recommendations"`))
	assert.True(t, strings.Contains(AnalysisPrompt, "0-100") || strings.Contains(AnalysisPrompt, "0 and 100"))
}
