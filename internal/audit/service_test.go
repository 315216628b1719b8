package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	rows []TimelineRow
}

func (r *memoryRepo) TimelineWindow(_ context.Context, filters TimelineFilters, limit, offset int) ([]TimelineRow, error) {
	var matched []TimelineRow
	for _, row := range r.rows {
		if filters.Actor != "" && row.Actor != filters.Actor {
			continue
		}
		if filters.Action != "" && row.Action != filters.Action {
			continue
		}
		matched = append(matched, row)
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func seedRows(n int) []TimelineRow {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := make([]TimelineRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, TimelineRow{
			At:       base.Add(-time.Duration(i) * time.Minute),
			Actor:    "estimator",
			Action:   "quote:create",
			Entity:   "quotation",
			EntityID: "q-1",
		})
	}
	return rows
}

func TestTimelinePaging(t *testing.T) {
	svc := NewService(&memoryRepo{rows: seedRows(25)})

	first, err := svc.Timeline(context.Background(), TimelineFilters{PageSize: 10})
	require.NoError(t, err)
	require.Len(t, first.Rows, 10)
	require.True(t, first.Paging.HasNext)
	require.Equal(t, 2, first.Paging.NextPage)
	require.Zero(t, first.Paging.PrevPage)

	last, err := svc.Timeline(context.Background(), TimelineFilters{Page: 3, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, last.Rows, 5)
	require.False(t, last.Paging.HasNext)
	require.Equal(t, 2, last.Paging.PrevPage)
}

func TestTimelineFilters(t *testing.T) {
	repo := &memoryRepo{rows: []TimelineRow{
		{Actor: "estimator", Action: "quote:create"},
		{Actor: "manager", Action: "quote:approve"},
	}}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{Actor: "manager"})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Equal(t, "quote:approve", result.Rows[0].Action)
}
