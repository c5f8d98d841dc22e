package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evalforge/evalforge/internal/domain"
)

func convRow(prompt string, conversationID *string, turnIndex *int) domain.DatasetRow {
	return domain.DatasetRow{Prompt: prompt, ConversationID: conversationID, TurnIndex: turnIndex}
}

func intPtr(i int) *int { return &i }

func TestNormalizeDatasetOrderGroupsByConversation(t *testing.T) {
	c1, c2 := "c1", "c2"
	rows := []domain.DatasetRow{
		convRow("c2-turn2", &c2, intPtr(2)),
		convRow("c1-turn1", &c1, intPtr(1)),
		convRow("c2-turn1", &c2, intPtr(1)),
		convRow("c1-turn0", &c1, intPtr(0)),
	}

	got := NormalizeDatasetOrder(rows)

	prompts := make([]string, len(got))
	for i, row := range got {
		prompts[i] = row.Prompt
	}
	assert.Equal(t, []string{"c1-turn0", "c1-turn1", "c2-turn1", "c2-turn2"}, prompts)
}

func TestNormalizeDatasetOrderNilConversationSortsFirst(t *testing.T) {
	c1 := "c1"
	rows := []domain.DatasetRow{
		convRow("in-conversation", &c1, intPtr(0)),
		convRow("standalone", nil, nil),
	}

	got := NormalizeDatasetOrder(rows)

	assert.Equal(t, "standalone", got[0].Prompt)
	assert.Equal(t, "in-conversation", got[1].Prompt)
}

func TestNormalizeDatasetOrderIsStableForUngroupedRows(t *testing.T) {
	rows := []domain.DatasetRow{
		convRow("first", nil, nil),
		convRow("second", nil, nil),
		convRow("third", nil, nil),
	}

	got := NormalizeDatasetOrder(rows)

	assert.Equal(t, "first", got[0].Prompt)
	assert.Equal(t, "second", got[1].Prompt)
	assert.Equal(t, "third", got[2].Prompt)
}

func TestNormalizeDatasetOrderPreservesLengthAndInput(t *testing.T) {
	c1 := "c1"
	rows := []domain.DatasetRow{
		convRow("b", &c1, intPtr(1)),
		convRow("a", &c1, intPtr(0)),
	}

	got := NormalizeDatasetOrder(rows)

	assert.Len(t, got, len(rows))
	// Input order is untouched.
	assert.Equal(t, "b", rows[0].Prompt)
	assert.Equal(t, "a", rows[1].Prompt)

	assert.Empty(t, NormalizeDatasetOrder(nil))
}
