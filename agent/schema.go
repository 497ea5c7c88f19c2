package agent

import (
	"encoding/json"
)

// DeckResponseSchema describes the deck document in the OpenAPI subset
// Gemini accepts as responseSchema.
func DeckResponseSchema() map[string]interface{} {
	str := map[string]interface{}{"type": "STRING"}
	strList := map[string]interface{}{"type": "ARRAY", "items": str}

	slide := map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"id":           str,
			"type":         map[string]interface{}{"type": "STRING", "enum": []string{"title", "content", "chart", "table", "process"}},
			"title":        str,
			"subtitle":     str,
			"bulletPoints": strList,
			"chartData": map[string]interface{}{
				"type": "OBJECT",
				"properties": map[string]interface{}{
					"type":   map[string]interface{}{"type": "STRING", "enum": []string{"bar", "line", "pie"}},
					"labels": strList,
					"datasets": map[string]interface{}{
						"type": "ARRAY",
						"items": map[string]interface{}{
							"type": "OBJECT",
							"properties": map[string]interface{}{
								"label": str,
								"data":  map[string]interface{}{"type": "ARRAY", "items": map[string]interface{}{"type": "NUMBER"}},
							},
							"required": []string{"label", "data"},
						},
					},
				},
				"required": []string{"type", "labels", "datasets"},
			},
			"tableData": map[string]interface{}{
				"type": "OBJECT",
				"properties": map[string]interface{}{
					"headers": strList,
					"rows":    map[string]interface{}{"type": "ARRAY", "items": strList},
				},
				"required": []string{"headers", "rows"},
			},
			"processSteps": map[string]interface{}{
				"type": "ARRAY",
				"items": map[string]interface{}{
					"type": "OBJECT",
					"properties": map[string]interface{}{
						"title":       str,
						"description": str,
					},
					"required": []string{"title", "description"},
				},
			},
			"backgroundImageKeyword": str,
			"layout":                 map[string]interface{}{"type": "STRING", "enum": []string{"left", "right", "center", "split"}},
		},
		"required": []string{"id", "type", "title"},
	}

	return map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"title":  str,
			"topic":  str,
			"style":  str,
			"slides": map[string]interface{}{"type": "ARRAY", "items": slide},
		},
		"required": []string{"title", "slides"},
	}
}

// schemaText is DeckResponseSchema as indented JSON for the prompt.
func schemaText() string {
	data, err := json.MarshalIndent(DeckResponseSchema(), "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
