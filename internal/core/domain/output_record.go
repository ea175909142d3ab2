package domain

import "time"

// OutputRecord remembers what was last written for a generated type.
type OutputRecord struct {
	FQN        string    `json:"fqn,omitzero"`
	Path       string    `json:"path,omitzero"`
	SourceHash string    `json:"source_hash,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}
