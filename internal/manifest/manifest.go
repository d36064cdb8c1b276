// Package manifest records what a content build read and produced, so two
// builds can be compared without diffing their output.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/sitegraph/internal/content"
	"git.home.luguber.info/inful/sitegraph/internal/pipeline"
)

// BuildManifest is a complete record of a build's inputs and outputs.
type BuildManifest struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Inputs    Inputs        `json:"inputs"`
	Records   []RecordEntry `json:"records"`
	Stages    []StageEntry  `json:"stages"`
	Outputs   Outputs       `json:"outputs"`
	Status    string        `json:"status"`
	Duration  int64         `json:"duration_ms"`
}

// Inputs captures what the build depended on.
type Inputs struct {
	ConfigHash   string `json:"config_hash"`
	SchemaDigest string `json:"schema_digest"`
	Files        int    `json:"files"`
}

// RecordEntry describes one loaded record.
type RecordEntry struct {
	ID          string `json:"id"`
	Type        string `json:"type,omitempty"`
	URL         string `json:"url,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

// StageEntry is the measured duration of one pipeline stage.
type StageEntry struct {
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
}

// Outputs captures the artifacts written by the build.
type Outputs struct {
	File        string `json:"file,omitempty"`
	ContentHash string `json:"content_hash,omitempty"`
	Pages       int    `json:"pages"`
	Resolved    int    `json:"references_resolved"`
	Unresolved  int    `json:"references_unresolved"`
}

// New builds a manifest from a finished run.
func New(res *pipeline.Result, rep *pipeline.Report, in Inputs) (*BuildManifest, error) {
	m := &BuildManifest{
		ID:        rep.RunID,
		Timestamp: rep.Start.UTC(),
		Inputs:    in,
		Status:    string(rep.Outcome),
		Duration:  rep.Duration().Milliseconds(),
		Outputs: Outputs{
			Pages:      rep.Pages,
			Resolved:   rep.Resolved,
			Unresolved: rep.Unresolved,
		},
	}
	m.Inputs.Files = rep.Files
	for _, st := range rep.Stages {
		m.Stages = append(m.Stages, StageEntry{Name: string(st.Stage), DurationMS: st.Duration.Milliseconds()})
	}
	if res == nil {
		return m, nil
	}

	m.Records = make([]RecordEntry, 0, len(res.Objects))
	for _, rec := range res.Objects {
		fp, err := Fingerprint(rec)
		if err != nil {
			return nil, fmt.Errorf("fingerprint %s: %w", rec.ID(), err)
		}
		m.Records = append(m.Records, RecordEntry{
			ID:          rec.ID(),
			Type:        rec.TypeName(),
			URL:         rec.URLPath(),
			Fingerprint: fp,
		})
	}
	return m, nil
}

// Fingerprint hashes a record's content, ignoring annotation marks. The
// markdown body and the remaining fields are hashed as separate parts.
func Fingerprint(rec *content.Record) (string, error) {
	plain := content.CloneContent(rec)
	body, _ := plain.GetString(content.MarkdownContentKey)
	plain.Delete(content.MarkdownContentKey)

	fields, err := plain.MarshalJSON()
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(string(fields), body), nil
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Hash computes a deterministic hash of the manifest's inputs and record
// fingerprints. Two builds of an unchanged corpus hash the same.
func (m *BuildManifest) Hash() (string, error) {
	hashInput := struct {
		ConfigHash   string        `json:"config_hash"`
		SchemaDigest string        `json:"schema_digest"`
		Records      []RecordEntry `json:"records"`
	}{
		ConfigHash:   m.Inputs.ConfigHash,
		SchemaDigest: m.Inputs.SchemaDigest,
		Records:      m.Records,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}
