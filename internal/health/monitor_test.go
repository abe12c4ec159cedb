package health

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProber struct {
	mu    sync.Mutex
	errs  []error
	calls int32
}

func (p *scriptedProber) Health(context.Context) error {
	atomic.AddInt32(&p.calls, 1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.errs) == 0 {
		return nil
	}
	err := p.errs[0]
	p.errs = p.errs[1:]
	return err
}

func TestMonitor_InitialStatus(t *testing.T) {
	m := NewMonitor(&scriptedProber{}, nil)
	s, at := m.Status()
	assert.Equal(t, StatusChecking, s)
	assert.True(t, at.IsZero())
}

func TestMonitor_CheckTransitions(t *testing.T) {
	p := &scriptedProber{errs: []error{nil, errors.New("down"), nil}}
	m := NewMonitor(p, nil)

	var changes []Status
	m.OnChange(func(s Status) { changes = append(changes, s) })

	ctx := context.Background()
	assert.Equal(t, StatusOK, m.Check(ctx))
	assert.Equal(t, StatusDown, m.Check(ctx))
	assert.Equal(t, StatusOK, m.Check(ctx))
	assert.Equal(t, StatusOK, m.Check(ctx))

	assert.Equal(t, []Status{StatusOK, StatusDown, StatusOK}, changes)
}

func TestMonitor_CancelledCheckKeepsState(t *testing.T) {
	m := NewMonitor(&scriptedProber{errs: []error{context.Canceled}}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, StatusChecking, m.Check(ctx))
}

func TestMonitor_RunPollsUntilCancelled(t *testing.T) {
	p := &scriptedProber{}
	m := NewMonitor(p, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, 10*time.Millisecond) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&p.calls) >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	s, _ := m.Status()
	assert.Equal(t, StatusOK, s)
}
