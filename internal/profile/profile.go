// Package profile loads JSON documents that tune the fuzzing harness,
// guarded by a semver schema-version check before any field is trusted.
package profile

import (
	"encoding/json"
	"os"

	"github.com/Masterminds/semver/v3"

	"github.com/orizon-lang/havoc/internal/diagnostics"
)

// compatConstraint is the range of profile schema versions this build
// understands. Bumped only when a field is added or removed in a
// backwards-incompatible way.
var compatConstraint = mustConstraint("^1")

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}

	return c
}

// Profile configures a harness run. It never overrides the mutation
// engine's own constants (those are part of the engine's
// fixed contract), only the harness wrapped around it: how large
// a buffer each Mutator reserves, how many workers run concurrently, and
// where the corpus lives. Zero values mean "use the harness default."
type Profile struct {
	SchemaVersion string `json:"schema_version"`
	MaxInputSize  int    `json:"max_input_size,omitempty"`
	Concurrency   int    `json:"concurrency,omitempty"`
	CorpusDir     string `json:"corpus_dir,omitempty"`
}

// Load reads and validates a profile document from path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse validates a profile document already in memory.
func Parse(data []byte) (*Profile, error) {
	var p Profile

	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	if err := p.validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

func (p *Profile) validate() error {
	if p.SchemaVersion == "" {
		return diagnostics.InvalidProfile("schema_version is required")
	}

	v, err := semver.NewVersion(p.SchemaVersion)
	if err != nil {
		return diagnostics.InvalidProfile("schema_version is not a valid semver: " + err.Error())
	}

	if !compatConstraint.Check(v) {
		return diagnostics.InvalidProfile("schema_version " + p.SchemaVersion + " does not satisfy " + compatConstraint.String())
	}

	for name, val := range map[string]int{
		"max_input_size": p.MaxInputSize,
		"concurrency":    p.Concurrency,
	} {
		if val < 0 {
			return diagnostics.InvalidProfile(name + " must be >= 0")
		}
	}

	return nil
}
