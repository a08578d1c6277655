// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

package supervisor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// countingService counts starts and fails the first failFirst runs.
type countingService struct {
	name      string
	failFirst int32
	starts    atomic.Int32
	result    error
}

func (s *countingService) Serve(ctx context.Context) error {
	n := s.starts.Add(1)
	if n <= s.failFirst {
		return errors.New("transient failure")
	}
	if s.result != nil {
		return s.result
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *countingService) String() string { return s.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor is nil")
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want defaults %+v", tree.config, DefaultTreeConfig())
	}

	custom, _ := NewSupervisorTree(quietLogger(), TreeConfig{FailureBackoff: time.Second})
	if custom.config.FailureBackoff != time.Second {
		t.Errorf("FailureBackoff = %v, want 1s", custom.config.FailureBackoff)
	}
	if custom.config.FailureThreshold != 5.0 {
		t.Errorf("FailureThreshold = %v, want default 5", custom.config.FailureThreshold)
	}
}

func TestSupervisorTree_StartsEveryLayer(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	janitor := &countingService{name: "janitor"}
	hub := &countingService{name: "hub"}
	server := &countingService{name: "server"}
	tree.AddDataService(janitor)
	tree.AddMessagingService(hub)
	tree.AddAPIService(server)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	waitFor(t, func() bool {
		return janitor.starts.Load() > 0 && hub.starts.Load() > 0 && server.starts.Load() > 0
	})

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop after cancel")
	}
}

func TestSupervisorTree_RestartsFailedService(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	flaky := &countingService{name: "flaky-hub", failFirst: 2}
	stable := &countingService{name: "server"}
	tree.AddMessagingService(flaky)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tree.ServeBackground(ctx)

	waitFor(t, func() bool { return flaky.starts.Load() >= 3 })
	if stable.starts.Load() != 1 {
		t.Errorf("stable service started %d times, want 1", stable.starts.Load())
	}
}

func TestSupervisorTree_TerminateStopsTree(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	tree.AddMessagingService(&countingService{name: "hub"})
	tree.AddAPIService(&countingService{name: "server", result: suture.ErrTerminateSupervisorTree})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	select {
	case err := <-tree.ServeBackground(ctx):
		if errors.Is(err, context.DeadlineExceeded) {
			t.Fatal("tree ran until the context deadline instead of terminating")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("tree kept running after a terminating service")
	}
}

type unnamedService struct{}

func (unnamedService) Serve(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestSupervisorTree_LogsSupervisedServices(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tree, _ := NewSupervisorTree(slog.New(slog.NewTextHandler(&buf, nil)), TreeConfig{})
	tree.AddDataService(&countingService{name: "eventsub-dedup-janitor"})
	tree.AddMessagingService(&countingService{name: "websocket-hub"})
	tree.AddAPIService(unnamedService{})

	out := buf.String()
	for _, want := range []string{
		"layer=" + DataLayer + " service=eventsub-dedup-janitor",
		"layer=" + MessagingLayer + " service=websocket-hub",
		"layer=" + APILayer + " service=supervisor.unnamedService",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
