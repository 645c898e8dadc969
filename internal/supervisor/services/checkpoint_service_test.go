// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*CheckpointService)(nil)

type mockCheckpointer struct {
	calls atomic.Int32
	err   error
}

func (m *mockCheckpointer) Checkpoint(ctx context.Context) error {
	m.calls.Add(1)
	return m.err
}

func TestNewCheckpointService(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		want     time.Duration
	}{
		{"explicit", time.Minute, time.Minute},
		{"zero defaults", 0, DefaultCheckpointInterval},
		{"negative defaults", -time.Second, DefaultCheckpointInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCheckpointService(&mockCheckpointer{}, tt.interval)
			if svc.interval != tt.want {
				t.Errorf("interval = %v, want %v", svc.interval, tt.want)
			}
			if svc.String() != "duckdb-checkpoint" {
				t.Errorf("String() = %q", svc.String())
			}
		})
	}
}

func TestCheckpointService_Serve(t *testing.T) {
	t.Run("checkpoints on every tick and on shutdown", func(t *testing.T) {
		db := &mockCheckpointer{}
		svc := NewCheckpointService(db, 10*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		deadline := time.After(2 * time.Second)
		for db.calls.Load() < 3 {
			select {
			case <-deadline:
				t.Fatalf("only %d checkpoints before deadline", db.calls.Load())
			case <-time.After(5 * time.Millisecond):
			}
		}
		before := db.calls.Load()
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Serve did not return after cancellation")
		}
		if db.calls.Load() <= before {
			t.Error("expected a final checkpoint on shutdown")
		}
	})

	t.Run("keeps running when checkpoints fail", func(t *testing.T) {
		db := &mockCheckpointer{err: errors.New("database is locked")}
		svc := NewCheckpointService(db, 5*time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := svc.Serve(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
		}
		if db.calls.Load() < 2 {
			t.Errorf("checkpoint attempted %d times, want several", db.calls.Load())
		}
	})
}
