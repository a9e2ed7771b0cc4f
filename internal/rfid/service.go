package rfid

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// ScanSink receives raw UIDs for asynchronous check-in processing. The reader
// path is fire-and-forget: a scan that cannot be enqueued is dropped and
// logged, never retried from here.
type ScanSink interface {
	EnqueueScan(ctx context.Context, rfidUID string) error
}

// Service owns the hardware-listening goroutine. One instance is created at
// startup and injected where needed; it is not a package-level global.
//
// In normal mode a scanned UID is handed to the sink for check-in processing.
// With assign mode armed (the admin is binding a badge), the UID goes to the
// pending-assignment slot instead and assign mode disarms itself.
type Service struct {
	source  TagSource
	sink    ScanSink
	pending *PendingStore
	events  *Broadcaster

	mu         sync.Mutex
	assignMode bool
	running    bool
	stop       chan struct{}
	done       chan struct{}
}

func NewService(source TagSource, sink ScanSink, pending *PendingStore, events *Broadcaster) *Service {
	return &Service{source: source, sink: sink, pending: pending, events: events}
}

// Start launches the reader goroutine. Idempotent.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
	log.Info().Msg("rfid: reader service started")
}

// Stop terminates the reader goroutine and closes the source.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	_ = s.source.Close()
	<-done
	log.Info().Msg("rfid: reader service stopped")
}

// SetAssignMode arms or disarms assign mode. Armed, the next scan lands in
// the pending-assignment slot instead of producing a check-in.
func (s *Service) SetAssignMode(armed bool) {
	s.mu.Lock()
	s.assignMode = armed
	s.mu.Unlock()
	log.Info().Bool("armed", armed).Msg("rfid: assign mode changed")
}

func (s *Service) AssignMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignMode
}

// HandleScan processes one UID as if it came from the reader. Exposed so the
// mock-scan endpoint goes through exactly the hardware path.
func (s *Service) HandleScan(ctx context.Context, uid string) {
	log.Info().Str("rfid_uid", uid).Msg("rfid: tag read")

	s.mu.Lock()
	assign := s.assignMode
	if assign {
		s.assignMode = false
	}
	s.mu.Unlock()

	if assign {
		if err := s.pending.Put(ctx, uid); err != nil {
			log.Error().Err(err).Str("rfid_uid", uid).Msg("rfid: failed to store pending assignment")
			return
		}
		log.Info().Str("rfid_uid", uid).Msg("rfid: pending assignment stored")
		return
	}

	if err := s.sink.EnqueueScan(ctx, uid); err != nil {
		// fire-and-forget: drop the scan, the employee can tap again
		log.Error().Err(err).Str("rfid_uid", uid).Msg("rfid: failed to enqueue scan — dropped")
	}
}

func (s *Service) run(stop, done chan struct{}) {
	defer close(done)
	scans := s.source.Scans()
	for {
		select {
		case <-stop:
			return
		case uid, ok := <-scans:
			if !ok {
				log.Warn().Msg("rfid: tag source closed")
				return
			}
			s.HandleScan(context.Background(), uid)
		}
	}
}
