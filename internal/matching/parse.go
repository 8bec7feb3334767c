package matching

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

func parseAnalysis(raw string) (*MatchAnalysis, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	rawScore, ok := data["matchScore"]
	if !ok {
		return nil, fmt.Errorf("%w: matchScore is missing", ErrMalformedModelOutput)
	}
	score := coerceFloat(rawScore)
	if math.IsNaN(score) {
		return nil, fmt.Errorf("%w: matchScore %v is not a number", ErrMalformedModelOutput, rawScore)
	}
	if score == 0 {
		return nil, fmt.Errorf("%w: matchScore is zero", ErrMalformedModelOutput)
	}
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: matchScore %v is outside 0-100", ErrMalformedModelOutput, score)
	}

	matching, err := requireStrings(data, "matchingSkills")
	if err != nil {
		return nil, err
	}
	missing, err := requireStrings(data, "missingSkills")
	if err != nil {
		return nil, err
	}

	recommendations, ok := coerceStrings(data["recommendations"])
	if !ok {
		recommendations = []string{}
	}

	return &MatchAnalysis{
		MatchScore:      int(math.Round(score)),
		MatchingSkills:  matching,
		MissingSkills:   missing,
		Recommendations: recommendations,
	}, nil
}

func parseSuggestion(raw string) (*SkillSuggestion, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	shortTerm, err := requireStrings(data, "shortTerm")
	if err != nil {
		return nil, err
	}
	longTerm, err := requireStrings(data, "longTerm")
	if err != nil {
		return nil, err
	}
	resources, err := requireStrings(data, "resources")
	if err != nil {
		return nil, err
	}

	return &SkillSuggestion{ShortTerm: shortTerm, LongTerm: longTerm, Resources: resources}, nil
}

func decodeObject(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedModelOutput, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedModelOutput)
	}
	return data, nil
}

func requireStrings(data map[string]any, field string) ([]string, error) {
	values, ok := coerceStrings(data[field])
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an array", ErrMalformedModelOutput, field)
	}
	return values, nil
}

// extractJSON strips markdown code fences and any prose around the outermost
// JSON object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	if !strings.HasPrefix(raw, "{") {
		start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
		if start != -1 && end > start {
			raw = raw[start : end+1]
		}
	}
	return raw
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceStrings(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
