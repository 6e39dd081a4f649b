// Package vaultfile reads and writes the local secrets document.
//
// The canonical shape is a JSON object keyed by secret name whose values are
// objects {"value": string, "tags": {string: string}}. On read, a bare string
// value is also accepted so hand-written files stay convenient. Writes are
// deterministic: sorted keys, two-space indent, trailing newline, so two pulls
// against an unchanged vault produce byte-identical files.
package vaultfile

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema constrains the secrets file shape before any entry is pushed.
const documentSchema = `{
  "type": "object",
  "propertyNames": {"minLength": 1},
  "additionalProperties": {
    "oneOf": [
      {"type": "string"},
      {
        "type": "object",
        "required": ["value"],
        "properties": {
          "value": {"type": "string"},
          "tags": {"type": "object", "additionalProperties": {"type": "string"}}
        },
        "additionalProperties": false
      }
    ]
  }
}`

// MalformedFileError indicates the secrets file is not valid JSON or does not
// match the expected shape. Fatal: no vault call runs after it.
type MalformedFileError struct {
	Path   string
	Reason string
	Err    error
}

func (e MalformedFileError) Error() string {
	return fmt.Sprintf("malformed secrets file %s: %s", e.Path, e.Reason)
}

func (e MalformedFileError) Unwrap() error {
	return e.Err
}

// Entry is one secret in the document.
type Entry struct {
	Value string
	Tags  map[string]string
}

// entryJSON is the canonical serialized form of an Entry.
type entryJSON struct {
	Value string            `json:"value"`
	Tags  map[string]string `json:"tags,omitempty"`
}

// UnmarshalJSON accepts the canonical object form and the bare-string shorthand.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*e = Entry{Value: value}
		return nil
	}

	var obj entryJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*e = Entry{Value: obj.Value, Tags: obj.Tags}
	return nil
}

// MarshalJSON always emits the canonical object form.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{Value: e.Value, Tags: e.Tags})
}

// Document maps secret names to entries.
type Document map[string]Entry

// Read loads and validates a secrets file.
func Read(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, MalformedFileError{Path: path, Reason: "invalid JSON: " + err.Error(), Err: err}
	}
	if !result.Valid() {
		var reasons []string
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, MalformedFileError{Path: path, Reason: strings.Join(reasons, "; ")}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, MalformedFileError{Path: path, Reason: err.Error(), Err: err}
	}
	return doc, nil
}

// Write replaces the file with the document in canonical form.
func Write(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode secrets file: %w", err)
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
