package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvalRunStatus(t *testing.T) {
	t.Run("normalizes case to canonical token", func(t *testing.T) {
		status, err := ParseEvalRunStatus("evalrunstarted")
		require.NoError(t, err)
		assert.Equal(t, StatusEvalRunStarted, status)

		status, err = ParseEvalRunStatus("REQUESTSUBMITTED")
		require.NoError(t, err)
		assert.Equal(t, StatusRequestSubmitted, status)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		status, err := ParseEvalRunStatus("  EvalRunCompleted ")
		require.NoError(t, err)
		assert.Equal(t, StatusEvalRunCompleted, status)
	})

	t.Run("rejects unrecognized text", func(t *testing.T) {
		_, err := ParseEvalRunStatus("Running")
		assert.Error(t, err)

		_, err = ParseEvalRunStatus("")
		assert.Error(t, err)
	})
}

func TestEvalRunStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusEvalRunCompleted.IsTerminal())
	assert.True(t, StatusEvalRunFailed.IsTerminal())
	assert.False(t, StatusRequestSubmitted.IsTerminal())
	assert.False(t, StatusEnrichingDataset.IsTerminal())
}

func TestMetadataRecordMatchesNaturalKey(t *testing.T) {
	golden := "Golden"
	rec := &MetadataRecord{Name: "regression-suite", Type: &golden}

	upper := "GOLDEN"
	assert.True(t, rec.MatchesNaturalKey("regression-suite", &upper))
	assert.False(t, rec.MatchesNaturalKey("other-suite", &upper))
	assert.False(t, rec.MatchesNaturalKey("regression-suite", nil))

	untyped := &MetadataRecord{Name: "nightly"}
	assert.True(t, untyped.MatchesNaturalKey("nightly", nil))
}
