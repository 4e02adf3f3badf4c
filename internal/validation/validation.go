package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxDatasetNameLength bounds the dataset identifier.
const MaxDatasetNameLength = 256

var (
	// ErrAnalysisRequired means the analysis field was missing or null.
	ErrAnalysisRequired = errors.New("analysis is required")
	// ErrAnalysisType means analysis was neither an object nor a string.
	ErrAnalysisType = errors.New("analysis must be a JSON object or a string containing one")
)

// ParseError is returned when a string-encoded analysis cannot be decoded
// into a JSON object.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "analysis must be a valid JSON string when provided as string: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidateDatasetName checks that the dataset identifier is usable.
func ValidateDatasetName(name string) (bool, string) {
	if strings.TrimSpace(name) == "" {
		return false, "dataset_name is required"
	}
	if len(name) > MaxDatasetNameLength {
		return false, fmt.Sprintf("dataset_name must be at most %d characters", MaxDatasetNameLength)
	}
	return true, ""
}

// NormalizeAnalysis turns the raw analysis field into compact object bytes.
// The field may hold an object, or a string whose content is an encoded
// object; both produce the same result.
func NormalizeAnalysis(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrAnalysisRequired
	}

	switch trimmed[0] {
	case '{':
		return compactObject(trimmed)
	case '"':
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return nil, ErrAnalysisType
		}
		return decodeEncodedObject(encoded)
	default:
		return nil, ErrAnalysisType
	}
}

func decodeEncodedObject(encoded string) (json.RawMessage, error) {
	inner := bytes.TrimSpace([]byte(encoded))

	var decoded any
	if err := json.Unmarshal(inner, &decoded); err != nil {
		return nil, &ParseError{Err: err}
	}
	if _, ok := decoded.(map[string]any); !ok {
		return nil, &ParseError{Err: fmt.Errorf("decoded value is %s, want object", kindOf(decoded))}
	}
	return compactObject(inner)
}

func compactObject(data []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, &ParseError{Err: err}
	}
	return json.RawMessage(buf.Bytes()), nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SafeFilename reduces s to characters that are safe in a download file
// name. An empty result becomes "dataset".
func SafeFilename(s string) string {
	out := strings.Trim(unsafeFilenameChars.ReplaceAllString(s, "_"), "._")
	if out == "" {
		return "dataset"
	}
	return out
}
