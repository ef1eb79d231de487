// # internal/history/models.go
package history

import (
	"time"

	"github.com/google/uuid"

	"polyscan/internal/fact"
)

const SchemaVersion = 1

// Snapshot is one persisted summary row per scan run. Full fact lists are
// not stored; the store exists for trend queries, not replay.
type Snapshot struct {
	RunID              string
	Target             string
	SchemaVersion      int
	Timestamp          time.Time
	TotalFiles         int
	ProcessedFiles     int
	TotalFunctions     int
	MissingDefinitions int
	OrphanedFunctions  int
	CircularImports    int
	Cycles             int
	ErrorCount         int
	ScanMillis         int64
}

// NewSnapshot summarizes a scan result under a fresh run identifier.
func NewSnapshot(target string, result *fact.Result) Snapshot {
	return Snapshot{
		RunID:              uuid.NewString(),
		Target:             target,
		SchemaVersion:      SchemaVersion,
		Timestamp:          time.Now().UTC(),
		TotalFiles:         result.TotalFiles,
		ProcessedFiles:     result.ProcessedFiles,
		TotalFunctions:     result.TotalFunctions,
		MissingDefinitions: result.Stats.MissingDefinitions,
		OrphanedFunctions:  result.Stats.OrphanedFunctions,
		CircularImports:    result.Stats.CircularImports,
		Cycles:             result.Stats.Cycles,
		ErrorCount:         len(result.Errors),
		ScanMillis:         int64(result.ScanTime * 1000),
	}
}
