// Tally - User Engagement Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tally

package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

// mockService runs until canceled, failing the first failures starts.
type mockService struct {
	name     string
	starts   atomic.Int32
	failures int32
}

func (m *mockService) Serve(ctx context.Context) error {
	if n := m.starts.Add(1); n <= m.failures {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string {
	return m.name
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewSupervisorTree(t *testing.T) {
	tests := []struct {
		name string
		in   TreeConfig
		want TreeConfig
	}{
		{"zero config gets defaults", TreeConfig{}, DefaultTreeConfig()},
		{
			"explicit values kept",
			TreeConfig{FailureThreshold: 3, FailureDecay: 10, FailureBackoff: time.Second, ShutdownTimeout: 2 * time.Second},
			TreeConfig{FailureThreshold: 3, FailureDecay: 10, FailureBackoff: time.Second, ShutdownTimeout: 2 * time.Second},
		},
		{
			"partial config",
			TreeConfig{ShutdownTimeout: time.Second},
			TreeConfig{FailureThreshold: 5, FailureDecay: 30, FailureBackoff: 15 * time.Second, ShutdownTimeout: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := NewSupervisorTree(quietLogger(), tt.in)
			if err != nil {
				t.Fatalf("NewSupervisorTree() error = %v", err)
			}
			if tree.Root() == nil {
				t.Fatal("root supervisor should not be nil")
			}
			if tree.config != tt.want {
				t.Errorf("config = %+v, want %+v", tree.config, tt.want)
			}
		})
	}
}

func TestSupervisorTreeRunsBothLayers(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})

	data := &mockService{name: "checkpoint"}
	api := &mockService{name: "http"}
	tree.AddDataService(data)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.After(2 * time.Second)
	for data.starts.Load() < 1 || api.starts.Load() < 1 {
		select {
		case <-deadline:
			t.Fatalf("services not started: data=%d api=%d", data.starts.Load(), api.starts.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not shut down in time")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) != 0 {
		t.Errorf("unstopped services: %v", report)
	}
}

func TestSupervisorTreeRestartsFailingService(t *testing.T) {
	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})

	failing := &mockService{name: "failing", failures: 2}
	stable := &mockService{name: "stable"}
	tree.AddDataService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	for failing.starts.Load() < 3 && ctx.Err() == nil {
		time.Sleep(10 * time.Millisecond)
	}
	if failing.starts.Load() < 3 {
		t.Errorf("failing service started %d times, want at least 3", failing.starts.Load())
	}
	if stable.starts.Load() != 1 {
		t.Errorf("stable service started %d times, want 1", stable.starts.Load())
	}

	cancel()
	<-errCh
}
