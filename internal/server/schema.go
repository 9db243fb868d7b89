// internal/server/schema.go
package server

// Request body schemas, validated before JSON decoding into the service
// request types. Structural checks only; domain rules (category codes, rank
// bounds) live in the services.

var predictSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"rank", "category"},
	"properties": map[string]interface{}{
		"rank":        map[string]interface{}{"type": "integer"},
		"category":    map[string]interface{}{"type": "string"},
		"examType":    map[string]interface{}{"type": "string"},
		"branch":      map[string]interface{}{"type": "string"},
		"collegeType": map[string]interface{}{"type": "string"},
		"year":        map[string]interface{}{"type": "integer"},
	},
	"additionalProperties": false,
}

// adviceSchema is the predict shape plus an optional colleges array, for
// callers that pass along the rows of a prediction they already hold.
var adviceSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"rank", "category"},
	"properties": map[string]interface{}{
		"rank":        map[string]interface{}{"type": "integer"},
		"category":    map[string]interface{}{"type": "string"},
		"examType":    map[string]interface{}{"type": "string"},
		"branch":      map[string]interface{}{"type": "string"},
		"collegeType": map[string]interface{}{"type": "string"},
		"year":        map[string]interface{}{"type": "integer"},
		"colleges": map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "object"},
		},
	},
	"additionalProperties": false,
}

var leadSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"name", "phone"},
	"properties": map[string]interface{}{
		"name":     map[string]interface{}{"type": "string", "minLength": 1},
		"phone":    map[string]interface{}{"type": "string"},
		"email":    map[string]interface{}{"type": "string"},
		"rank":     map[string]interface{}{"type": "integer"},
		"category": map[string]interface{}{"type": "string"},
		"branch":   map[string]interface{}{"type": "string"},
		"source":   map[string]interface{}{"type": "string"},
	},
	"additionalProperties": false,
}
