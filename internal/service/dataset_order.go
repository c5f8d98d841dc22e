package service

import (
	"sort"

	"github.com/evalforge/evalforge/internal/domain"
)

// NormalizeDatasetOrder returns a new slice with rows grouped by
// conversation. Groups sort by conversationId ascending, a nil
// conversationId sorting first as the empty string; within a group rows
// sort by turnIndex ascending. Rows that tie on both keys keep their
// original relative order. The input is never mutated.
func NormalizeDatasetOrder(rows []domain.DatasetRow) []domain.DatasetRow {
	out := make([]domain.DatasetRow, len(rows))
	copy(out, rows)

	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := conversationKey(out[i]), conversationKey(out[j])
		if ci != cj {
			return ci < cj
		}
		return turnKey(out[i]) < turnKey(out[j])
	})

	return out
}

func conversationKey(row domain.DatasetRow) string {
	if row.ConversationID == nil {
		return ""
	}
	return *row.ConversationID
}

func turnKey(row domain.DatasetRow) int {
	if row.TurnIndex == nil {
		return 0
	}
	return *row.TurnIndex
}
