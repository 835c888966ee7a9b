package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/compstate/internal/ir"
)

// marshalPath converts a state path to canonical JSON TEXT for storage.
func marshalPath(p ir.StatePath) (string, error) {
	ids := make([]string, len(p))
	for i, id := range p {
		ids[i] = string(id)
	}
	data, err := ir.MarshalCanonical(ids)
	if err != nil {
		return "", fmt.Errorf("marshal path: %w", err)
	}
	return string(data), nil
}

// unmarshalPath parses a stored path. The result is never nil.
func unmarshalPath(text string) (ir.StatePath, error) {
	var ids []string
	if err := json.Unmarshal([]byte(text), &ids); err != nil {
		return nil, fmt.Errorf("unmarshal path: %w", err)
	}
	p := make(ir.StatePath, len(ids))
	for i, id := range ids {
		p[i] = ir.StateID(id)
	}
	return p, nil
}

// parseResult is the inverse of ir.Result.String.
func parseResult(s string) (ir.Result, error) {
	var r ir.Result
	if err := r.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return r, nil
}
