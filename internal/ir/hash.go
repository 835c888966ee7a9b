package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainTable prefixes table fingerprints. The version suffix allows the
// algorithm to change without colliding with older fingerprints.
const DomainTable = "compstate/table/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a content hash of the table's structure: leaf paths,
// inputs, targets and the shape of each effect. Hooks are opaque and do
// not contribute, so two tables compiled from the same configuration
// produce the same fingerprint.
func (t *Table) Fingerprint() (string, error) {
	states := make([]any, len(t.States))
	for i, s := range t.States {
		transitions := make([]any, len(s.Transitions))
		for j, tr := range s.Transitions {
			steps := make([]any, len(tr.Effect.Steps))
			for k, step := range tr.Effect.Steps {
				steps[k] = map[string]any{
					"phase": step.Phase.String(),
					"path":  pathStrings(step.Path),
					"from":  pathStrings(step.From),
					"to":    pathStrings(step.To),
				}
			}
			transitions[j] = map[string]any{
				"input":  tr.Input,
				"next":   tr.Next,
				"effect": steps,
			}
		}
		states[i] = map[string]any{
			"path":        pathStrings(s.Path),
			"transitions": transitions,
		}
	}

	canonical, err := MarshalCanonical(map[string]any{
		"version": TableVersion,
		"states":  states,
	})
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTable, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when the table is known to be well formed.
func (t *Table) MustFingerprint() string {
	fp, err := t.Fingerprint()
	if err != nil {
		panic(err)
	}
	return fp
}

func pathStrings(p StatePath) []string {
	out := make([]string, len(p))
	for i, id := range p {
		out[i] = string(id)
	}
	return out
}
