package supervise

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thejerf/suture/v4"
)

func TestSanitizeError(t *testing.T) {
	live := context.Background()
	done, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, SanitizeError(live, nil))

	plain := errors.New("listen failed")
	assert.Same(t, plain, SanitizeError(live, plain))

	assert.ErrorIs(t, SanitizeError(done, plain), context.Canceled)

	wrapped := fmt.Errorf("dial: %w", context.DeadlineExceeded)
	got := SanitizeError(live, wrapped)
	assert.False(t, errors.Is(got, context.DeadlineExceeded))
	assert.Equal(t, "dial: context deadline exceeded", got.Error())

	stop := errors.Join(context.Canceled, suture.ErrDoNotRestart)
	got = SanitizeError(live, stop)
	assert.False(t, errors.Is(got, context.Canceled))
	assert.ErrorIs(t, got, suture.ErrDoNotRestart)
}

func TestSupervisorRunsService(t *testing.T) {
	var started atomic.Int32
	svc := NewFunc("probe", func(ctx context.Context) error {
		started.Add(1)
		<-ctx.Done()
		return ctx.Err()
	})
	assert.Equal(t, "probe", svc.String())

	super := New("test", nil)
	Add(super, svc)

	ctx, cancel := context.WithCancel(context.Background())
	errC := super.ServeBackground(ctx)

	require.Eventually(t, func() bool { return started.Load() == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-errC:
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not stop")
	}
	assert.Equal(t, int32(1), started.Load())
}
