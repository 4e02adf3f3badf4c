package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Response status values shared by the API and the viewer.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusEmpty = "empty"
)

// EmptyMessage is returned by the latest endpoint before the first ingest.
const EmptyMessage = "no analysis submitted yet"

// AnalysisRecord is the single persisted governance analysis.
type AnalysisRecord struct {
	Dataset   string          `json:"dataset"`
	Analysis  json.RawMessage `json:"analysis"`
	Timestamp time.Time       `json:"timestamp"`
}

// UnmarshalJSON accepts both RFC 3339 timestamps and the zoneless ISO-8601
// form written by older deployments.
func (r *AnalysisRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Dataset   string          `json:"dataset"`
		Analysis  json.RawMessage `json:"analysis"`
		Timestamp string          `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Dataset = raw.Dataset
	r.Analysis = raw.Analysis
	r.Timestamp = time.Time{}
	if raw.Timestamp != "" {
		ts, err := ParseTimestamp(raw.Timestamp)
		if err != nil {
			return err
		}
		r.Timestamp = ts
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses s as RFC 3339, falling back to zoneless ISO-8601
// which is taken to be UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// AnalyzeRequest is the body of POST /governance/analyze. Analysis is either
// an object or a string holding an encoded object.
type AnalyzeRequest struct {
	DatasetName string          `json:"dataset_name"`
	Analysis    json.RawMessage `json:"analysis"`
}

// StatusResponse is the body of simple status replies.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// LatestResponse is what GET /governance/latest returns, decoded from the
// viewer side. Exactly one of the two shapes is populated: Status is "empty"
// when nothing has been submitted yet, otherwise the record fields are set.
type LatestResponse struct {
	Status    string          `json:"status,omitempty"`
	Message   string          `json:"message,omitempty"`
	Dataset   string          `json:"dataset,omitempty"`
	Analysis  json.RawMessage `json:"analysis,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// IsEmpty reports whether the service had no record to return.
func (r *LatestResponse) IsEmpty() bool {
	return r.Status == StatusEmpty
}
