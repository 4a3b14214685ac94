package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/azzylc/gmt-app-main-sub000/internal/docstore"
)

// Watch subscribes to day's events and calls fn with freshly derived statuses
// for the initial snapshot and after every change. It returns nil once ctx is
// cancelled and the subscription has been torn down.
func Watch(ctx context.Context, store docstore.Store, day time.Time, shifts ShiftFunc, fn func([]DailyStatus)) error {
	snapshots, err := store.Subscribe(ctx, DayQuery(day))
	if err != nil {
		return fmt.Errorf("subscribe to attendance: %w", err)
	}
	for snap := range snapshots {
		fn(DeriveDay(DecodeEvents(snap.Docs), day, shifts))
	}
	return nil
}

// LoadDay derives statuses from a one-shot read of day's events.
func LoadDay(ctx context.Context, store docstore.Store, day time.Time, shifts ShiftFunc) ([]DailyStatus, error) {
	docs, err := store.Query(ctx, DayQuery(day))
	if err != nil {
		return nil, fmt.Errorf("load attendance: %w", err)
	}
	return DeriveDay(DecodeEvents(docs), day, shifts), nil
}
