package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type serverFunc func(ctx context.Context) error

func (f serverFunc) Start(ctx context.Context) error { return f(ctx) }

func blocking(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func TestManagerStopsOnCancel(t *testing.T) {
	m := NewManager(serverFunc(blocking), nil, serverFunc(blocking))
	assert.Equal(t, 2, m.Len())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop")
	}
}

func TestManagerFailureStopsOthers(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager(serverFunc(blocking), serverFunc(func(context.Context) error { return boom }))

	assert.ErrorIs(t, m.Start(context.Background()), boom)
}
