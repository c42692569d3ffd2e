package server

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/yhinai/clippy/internal/agent"
	"github.com/yhinai/clippy/internal/config"
	"github.com/yhinai/clippy/internal/llm"
	"github.com/yhinai/clippy/internal/logging"
	"github.com/yhinai/clippy/internal/memory"
	"github.com/yhinai/clippy/internal/tools"
)

// closeTrackStore records whether Close was called.
type closeTrackStore struct {
	memory.Store
	closed bool
}

func (s *closeTrackStore) Close() error {
	s.closed = true
	return s.Store.Close()
}

func TestStartClosesStoreOnExit(t *testing.T) {
	inner, err := memory.NewChromemStoreInMemory(memory.NewMockEmbedFunc(64))
	if err != nil {
		t.Fatal(err)
	}
	store := &closeTrackStore{Store: inner}

	cfg := config.DefaultConfig()
	cfg.GrokAPIKey = ""
	cfg.Port = 0

	mock := &llm.Mock{}
	ag := agent.New(agent.Config{
		Chat:     mock.Chat,
		Vision:   mock.Vision,
		Store:    store,
		Tools:    tools.DefaultRegistry(),
		MockMode: true,
	})

	srv := New(cfg, store, ag, logging.New("error", io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	if !store.closed {
		t.Error("store must be closed when Start returns")
	}
}
