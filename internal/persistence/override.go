package persistence

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/brownbat/kingdom-clicker/internal/kingdom"
)

// Hand-written state files are validated against a schema before being
// applied, so a typo'd key type fails loudly instead of silently restoring
// a default.

//go:embed state.schema.json
var stateSchemaJSON string

var stateSchema = jsonschema.MustCompileString("state.schema.json", stateSchemaJSON)

// ValidateStateFile checks snapshot JSON against the state schema.
func ValidateStateFile(data []byte) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse state file: %w", err)
	}
	if err := stateSchema.Validate(doc); err != nil {
		return fmt.Errorf("state file invalid: %w", err)
	}
	return nil
}

// LoadStateFile reads, validates, and restores a settlement from a JSON
// state file. Partial files work: absent keys keep fresh-settlement
// defaults.
func LoadStateFile(path string) (*kingdom.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if err := ValidateStateFile(data); err != nil {
		return nil, err
	}
	return kingdom.Restore(data)
}
