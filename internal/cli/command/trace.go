// Package command provides CLI command definitions for airsig-cli.
package command

import (
	"encoding/json"
	"fmt"
	"os"
)

// TracePoint is one recorded gesture point in a trace file.
type TracePoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// traceFile is the object form of a trace file.
type traceFile struct {
	Points []TracePoint `json:"points"`
}

// LoadTrace reads a gesture trace from a JSON file. Both a bare point
// array and an object with a "points" field are accepted.
func LoadTrace(path string) ([]TracePoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}

	var points []TracePoint
	if err := json.Unmarshal(data, &points); err == nil {
		return points, nil
	}

	var file traceFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse trace %s: %w", path, err)
	}
	if len(file.Points) == 0 {
		return nil, fmt.Errorf("trace %s contains no points", path)
	}
	return file.Points, nil
}
