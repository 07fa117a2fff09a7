package importer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMutexLocker_SerializesAndHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)
	l := NewMutexLocker()

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	again, err := l.Acquire(context.Background())
	require.NoError(t, err)
	again()
}

func TestImportFiles_LockBusy(t *testing.T) {
	l := NewMutexLocker()
	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	im := New(Dependencies{Lock: l}, Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = im.ImportFiles(ctx, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKeepAlive_RefreshesUntilStopped(t *testing.T) {
	defer goleak.VerifyNone(t)
	var calls atomic.Int32
	stop := keepAlive(5*time.Millisecond, func() bool {
		calls.Add(1)
		return true
	})
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	stop()
	stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load())
}

func TestKeepAlive_EndsWhenLockLost(t *testing.T) {
	defer goleak.VerifyNone(t)
	var calls atomic.Int32
	stop := keepAlive(time.Millisecond, func() bool {
		calls.Add(1)
		return false
	})
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	stop()
}
