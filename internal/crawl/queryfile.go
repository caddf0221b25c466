// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crawl

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litmap/pkg/types"
)

// SessionFile is the on-disk representation of one crawl: the query that
// produced it and the records it returned. A saved session can be fed to
// the analytics commands later without re-querying the API.
type SessionFile struct {
	Query   types.CrawlQuery `yaml:"query"`
	Records []types.Record   `yaml:"records"`
	Summary SessionSummary   `yaml:"summary"`
}

// SessionSummary stores result statistics and a timestamp.
type SessionSummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// SaveSession writes the query and its records to path as YAML.
func SaveSession(path string, query types.CrawlQuery, records []types.Record) error {
	sf := SessionFile{
		Query:   query,
		Records: records,
		Summary: SessionSummary{
			Total:     len(records),
			Timestamp: time.Now().UTC(),
		},
	}

	data, err := yaml.Marshal(sf)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// LoadSession reads a session file written by SaveSession.
func LoadSession(path string) (SessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SessionFile{}, fmt.Errorf("reading session file: %w", err)
	}

	var sf SessionFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return SessionFile{}, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	return sf, nil
}
