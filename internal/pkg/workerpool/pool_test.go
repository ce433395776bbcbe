package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMap_PreservesOrder(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	outs, errs := Map(context.Background(), 3, in, func(_ context.Context, v int) (int, error) {
		return v * v, nil
	})

	require.Len(t, outs, len(in))
	for i, v := range in {
		assert.Equal(t, v*v, outs[i])
		assert.NoError(t, errs[i])
	}
}

func TestMap_ReportsPerItemErrors(t *testing.T) {
	boom := errors.New("boom")
	outs, errs := Map(context.Background(), 2, []string{"ok", "fail", "ok"}, func(_ context.Context, s string) (string, error) {
		if s == "fail" {
			return "", boom
		}
		return s + "!", nil
	})

	assert.Equal(t, []string{"ok!", "", "ok!"}, outs)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], boom)
	assert.NoError(t, errs[2])
}

func TestMap_Empty(t *testing.T) {
	outs, errs := Map(context.Background(), 4, []int(nil), func(_ context.Context, v int) (int, error) {
		return v, nil
	})
	assert.Empty(t, outs)
	assert.Empty(t, errs)
}

func TestMap_CancelledContextSkipsWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	_, errs := Map(ctx, 2, []int{1, 2, 3}, func(_ context.Context, v int) (int, error) {
		calls.Add(1)
		return v, nil
	})

	assert.Equal(t, int32(0), calls.Load())
	for _, err := range errs {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestPool_RunsAllTasks(t *testing.T) {
	p := New(4, 0)
	results := p.Run(context.Background())

	var ran atomic.Int32
	go func() {
		for i := 0; i < 20; i++ {
			_, _ = p.Submit(context.Background(), func(context.Context) error {
				ran.Add(1)
				return nil
			})
		}
		p.Close()
	}()

	n := 0
	for res := range results {
		assert.NoError(t, res.Err)
		n++
	}
	assert.Equal(t, 20, n)
	assert.Equal(t, int32(20), ran.Load())
}
