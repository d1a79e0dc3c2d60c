package util

import (
	"encoding/json"
	"testing"
)

func TestFixJSONSchemaStrict(t *testing.T) {
	raw := `{
	  "properties": {
	    "name": {"type": "string"},
	    "steps": {
	      "type": "array",
	      "items": {
	        "properties": {
	          "title": {"type": "string"}
	        }
	      }
	    }
	  }
	}`
	var schema map[string]any
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		t.Fatalf("Failed to parse test schema: %v", err)
	}

	FixJSONSchemaStrict(schema)

	if schema["type"] != "object" {
		t.Errorf("Expected top-level type=object, got %v", schema["type"])
	}
	req, ok := schema["required"].([]any)
	if !ok || len(req) != 2 {
		t.Fatalf("Expected 2 required fields at top level, got %v", schema["required"])
	}

	items := schema["properties"].(map[string]any)["steps"].(map[string]any)["items"].(map[string]any)
	if items["type"] != "object" {
		t.Errorf("Expected nested items type=object, got %v", items["type"])
	}
	nestedReq, ok := items["required"].([]any)
	if !ok || len(nestedReq) != 1 {
		t.Errorf("Expected nested required [title], got %v", items["required"])
	}
}
