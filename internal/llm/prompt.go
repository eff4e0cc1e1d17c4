package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/floorsight/floorsight/internal/domain"
)

// AnalysisPrompt is the fixed instruction set for the vision completion. It
// asks the model to classify the image and, for floor plans, emit strict JSON
// matching the FloorPlanAnalysis shape; anything else gets the all-zero
// sentinel.
const AnalysisPrompt = `You are an expert architect reviewing floor-plan images.

First decide whether the image depicts a floor plan, architectural layout, or interior space.

If it does NOT, respond with exactly this JSON and nothing else:
{"scores":{"lighting":0,"space":0,"flow":0,"accessibility":0},"recommendations":[]}

If it does, critique the layout and respond with ONLY a JSON object of this exact shape:
{
  "scores": {
    "lighting": <integer 0-100>,
    "space": <integer 0-100>,
    "flow": <integer 0-100>,
    "accessibility": <integer 0-100>
  },
  "recommendations": [
    {
      "area": "<room or zone>",
      "issue": "<what is wrong>",
      "suggestion": "<how to fix it>",
      "priority": "high" | "medium" | "low"
    }
  ]
}

Rules:
1. Respond with ONLY the JSON, no explanations or markdown
2. Every score must be an integer between 0 and 100
3. Order recommendations from highest to lowest priority
4. Base the critique only on what is visible in the image`

// BuildChatPrompt creates the system instruction for one conversation turn.
// The full analysis is embedded verbatim as JSON so the assistant answers
// only in scope of that critique.
func BuildChatPrompt(analysis domain.FloorPlanAnalysis) (string, error) {
	serialized, err := json.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("failed to serialize analysis: %w", err)
	}

	return fmt.Sprintf(`You are a helpful architecture assistant discussing one specific floor-plan critique with the user.

The critique of the user's floor plan:
%s

Rules:
1. Answer only in scope of this critique and the floor plan it describes
2. If the user asks about something unrelated, politely redirect them back to their floor plan
3. Refer to the scores and recommendations above when relevant
4. Keep answers concise and practical`, serialized), nil
}

// ExtractJSON pulls the JSON object out of a model response, stripping
// markdown code fences when present
func ExtractJSON(content string) string {
	if inner := extractFromCodeBlock(content, "```json"); inner != "" {
		return inner
	}
	if inner := extractFromCodeBlock(content, "```"); inner != "" {
		return inner
	}

	// Fall back to the outermost braces.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return strings.TrimSpace(content[start : end+1])
	}

	return strings.TrimSpace(content)
}

func extractFromCodeBlock(content, startMarker string) string {
	start := strings.Index(content, startMarker)
	if start == -1 {
		return ""
	}

	inner := content[start+len(startMarker):]
	end := strings.Index(inner, "```")
	if end == -1 {
		return ""
	}

	return strings.TrimSpace(inner[:end])
}

// ParseAnalysis decodes and validates a vision completion response. Parse
// failure, missing fields, or any score outside [0,100] yields
// ErrInvalidAnalysis.
func ParseAnalysis(content string) (*domain.FloorPlanAnalysis, error) {
	raw := ExtractJSON(content)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty content", ErrInvalidAnalysis)
	}

	var analysis domain.FloorPlanAnalysis
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&analysis); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}

	if err := analysis.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAnalysis, err)
	}

	if analysis.Recommendations == nil {
		analysis.Recommendations = []domain.Recommendation{}
	}

	return &analysis, nil
}
