package course

// courseSchema is the JSON Schema every course document must satisfy
// before it is decoded. Keeping it strict here means the rest of the
// system never sees a half-formed course.
const courseSchema = `{
  "type": "object",
  "required": ["title", "description", "sections"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "sections": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["title", "order", "steps"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "content": {"type": "string"},
          "order": {"type": "integer", "minimum": 1},
          "resources": {"type": "array", "items": {"type": "string"}},
          "steps": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["step", "content", "next_action"],
              "properties": {
                "step": {"type": "integer", "minimum": 0},
                "content": {"type": "string", "minLength": 1},
                "expected_responses": {
                  "type": "array",
                  "items": {"type": "string", "minLength": 1}
                },
                "next_action": {
                  "type": "string",
                  "enum": ["CONTINUE", "NEXT", "REVIEW", "FINISH"]
                }
              }
            }
          }
        }
      }
    }
  }
}`
