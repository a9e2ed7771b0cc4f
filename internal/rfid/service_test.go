package rfid

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu   sync.Mutex
	uids []string
}

func (s *captureSink) EnqueueScan(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uids = append(s.uids, uid)
	return nil
}

func (s *captureSink) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uids...)
}

// unreachablePending returns a store whose Redis is never reachable, for
// exercising the assign-mode failure path without a server.
func unreachablePending() *PendingStore {
	return NewPendingStore(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}))
}

func TestServiceForwardsScansToSink(t *testing.T) {
	source := NewMockSource()
	sink := &captureSink{}
	svc := NewService(source, sink, unreachablePending(), NewBroadcaster())

	svc.Start()
	defer svc.Stop()

	source.Inject("AA:BB")
	source.Inject("CC:DD")

	require.Eventually(t, func() bool {
		return len(sink.seen()) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"AA:BB", "CC:DD"}, sink.seen())
}

func TestAssignModeDisarmsAfterOneScan(t *testing.T) {
	sink := &captureSink{}
	svc := NewService(NewMockSource(), sink, unreachablePending(), NewBroadcaster())

	svc.SetAssignMode(true)
	require.True(t, svc.AssignMode())

	// Armed: the scan goes to the pending slot (store write fails here, which
	// is dropped), never to the check-in sink, and assign mode disarms.
	svc.HandleScan(context.Background(), "EE:FF")
	assert.False(t, svc.AssignMode())
	assert.Empty(t, sink.seen())

	// Disarmed: next scan flows to the sink again
	svc.HandleScan(context.Background(), "EE:FF")
	assert.Equal(t, []string{"EE:FF"}, sink.seen())
}

func TestServiceStartStopIdempotent(t *testing.T) {
	svc := NewService(NewMockSource(), &captureSink{}, unreachablePending(), NewBroadcaster())

	svc.Start()
	svc.Start()
	svc.Stop()
	svc.Stop()
}

func TestMockSourceInjectAfterClose(t *testing.T) {
	source := NewMockSource()
	require.NoError(t, source.Close())

	done := make(chan struct{})
	go func() {
		source.Inject("AA:BB") // must not block or panic
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Inject blocked after Close")
	}
}
