package progress

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/usblord/internal/bank"
)

// recordSchema describes an exported progress file.
var recordSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"currentQuestion": map[string]any{
			"type":    "integer",
			"minimum": 1,
			"maximum": bank.TotalQuestions,
		},
		"currentChapter": map[string]any{
			"type":    "integer",
			"minimum": 1,
			"maximum": bank.MaxChapters,
		},
		"score": map[string]any{
			"type":    "integer",
			"minimum": 0,
		},
		"completedQuestions": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":    "integer",
				"minimum": 1,
				"maximum": bank.TotalQuestions,
			},
			"uniqueItems": true,
		},
		"gameStartTime": map[string]any{"type": "integer", "minimum": 0},
		"savedAt":       map[string]any{"type": "integer", "minimum": 0},
		"version":       map[string]any{"type": "string", "minLength": 1},
	},
	"required": []any{"currentQuestion", "score", "completedQuestions", "version"},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func importSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value, so round-trip the Go map.
		raw, err := json.Marshal(recordSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal record schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse record schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://usblord-progress.json"
		if err := c.AddResource(url, doc); err != nil {
			compileErr = fmt.Errorf("add record schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// validateExport checks data against the export schema.
func validateExport(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	s, err := importSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("progress file does not match schema: %w", err)
	}
	return nil
}
