package fsm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/looplab/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRealError(t *testing.T) {
	assert.False(t, IsRealError(nil))
	assert.False(t, IsRealError(fsm.NoTransitionError{}))
	assert.False(t, IsRealError(fsm.CanceledError{}))
	assert.True(t, IsRealError(fsm.InvalidEventError{Event: "open", State: "closed"}))
	assert.True(t, IsRealError(errors.New("boom")))
}

func TestWrapEventStoresError(t *testing.T) {
	boom := errors.New("boom")
	f := fsm.NewFSM("closed",
		fsm.Events{{Name: "open", Src: []string{"closed"}, Dst: "open"}},
		fsm.Callbacks{
			"enter_open": WrapEvent(func(ctx context.Context, e *fsm.Event) error {
				return fmt.Errorf("enter: %w", boom)
			}),
		},
	)

	err := f.Event(context.Background(), "open")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, IsRealError(err))
}
