package domain

import (
	"strings"
	"time"
)

// MetadataRecord is the indexed row half of a stored artifact. The content
// payload lives separately in blob storage at ContainerName/BlobPath.
type MetadataRecord struct {
	ID            string     `json:"id"`
	AgentID       string     `json:"agentId"`
	Kind          RecordKind `json:"kind"`
	Name          string     `json:"name"`
	Type          *string    `json:"type,omitempty"`
	ContainerName string     `json:"containerName"`
	BlobPath      string     `json:"blobPath"`
	CreatedBy     string     `json:"createdBy"`
	CreatedOn     time.Time  `json:"createdOn"`
	LastUpdatedBy string     `json:"lastUpdatedBy"`
	LastUpdatedOn time.Time  `json:"lastUpdatedOn"`

	// EvalRun-only fields; zero-valued for other kinds.
	Status                 EvalRunStatus `json:"status,omitempty"`
	DataSetID              string        `json:"dataSetId,omitempty"`
	MetricsConfigurationID string        `json:"metricsConfigurationId,omitempty"`
}

// TypeString returns the record type or the empty string when unset.
func (r *MetadataRecord) TypeString() string {
	if r.Type == nil {
		return ""
	}
	return *r.Type
}

// MatchesNaturalKey reports whether the record matches the (name, type)
// portion of a natural key. Type comparison is case-insensitive.
func (r *MetadataRecord) MatchesNaturalKey(name string, typ *string) bool {
	if r.Name != name {
		return false
	}
	want := ""
	if typ != nil {
		want = *typ
	}
	return strings.EqualFold(r.TypeString(), want)
}

// DatasetRow is one record of a DataSet content payload.
type DatasetRow struct {
	Prompt           string            `json:"prompt"`
	GroundTruth      string            `json:"groundTruth"`
	ActualResponse   string            `json:"actualResponse"`
	ExpectedResponse *string           `json:"expectedResponse,omitempty"`
	Context          []string          `json:"context,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	ConversationID   *string           `json:"conversationId,omitempty"`
	TurnIndex        *int              `json:"turnIndex,omitempty"`
}

// MetricSelection is one record of a MetricsConfiguration content payload.
type MetricSelection struct {
	MetricName   string  `json:"metricName"`
	CategoryName *string `json:"categoryName,omitempty"`
	Threshold    float64 `json:"threshold"`
}

// RunResult is one record of an EvalRun content payload.
type RunResult struct {
	MetricName string  `json:"metricName"`
	Score      float64 `json:"score"`
	Passed     bool    `json:"passed"`
	Reason     string  `json:"reason,omitempty"`
}
