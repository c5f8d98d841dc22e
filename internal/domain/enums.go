package domain

import (
	"fmt"
	"strings"
)

// RecordKind identifies which artifact family a metadata record belongs to
type RecordKind string

const (
	RecordKindDataSet              RecordKind = "DataSet"
	RecordKindMetricsConfiguration RecordKind = "MetricsConfiguration"
	RecordKindEvalRun              RecordKind = "EvalRun"
)

// IsValid checks if the record kind is valid
func (k RecordKind) IsValid() bool {
	switch k {
	case RecordKindDataSet, RecordKindMetricsConfiguration, RecordKindEvalRun:
		return true
	}
	return false
}

// Segment returns the blob path segment for the kind
func (k RecordKind) Segment() string {
	switch k {
	case RecordKindDataSet:
		return "datasets"
	case RecordKindMetricsConfiguration:
		return "metrics-configurations"
	case RecordKindEvalRun:
		return "eval-runs"
	}
	return "records"
}

// EvalRunStatus represents the lifecycle status of an eval run
type EvalRunStatus string

const (
	StatusRequestSubmitted           EvalRunStatus = "RequestSubmitted"
	StatusEnrichingDataset           EvalRunStatus = "EnrichingDataset"
	StatusDatasetEnrichmentCompleted EvalRunStatus = "DatasetEnrichmentCompleted"
	StatusEvalRunStarted             EvalRunStatus = "EvalRunStarted"
	StatusEvalRunCompleted           EvalRunStatus = "EvalRunCompleted"
	StatusEvalRunFailed              EvalRunStatus = "EvalRunFailed"
)

var evalRunStatuses = []EvalRunStatus{
	StatusRequestSubmitted,
	StatusEnrichingDataset,
	StatusDatasetEnrichmentCompleted,
	StatusEvalRunStarted,
	StatusEvalRunCompleted,
	StatusEvalRunFailed,
}

// IsValid checks if the status is one of the canonical lifecycle tokens
func (s EvalRunStatus) IsValid() bool {
	for _, known := range evalRunStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal checks if the status is terminal
func (s EvalRunStatus) IsTerminal() bool {
	return s == StatusEvalRunCompleted || s == StatusEvalRunFailed
}

// ParseEvalRunStatus maps arbitrary-case text to a canonical status token.
// Unrecognized text fails rather than passing through.
func ParseEvalRunStatus(text string) (EvalRunStatus, error) {
	trimmed := strings.TrimSpace(text)
	for _, known := range evalRunStatuses {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unrecognized eval run status %q", text)
}
