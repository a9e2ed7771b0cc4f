package rfid

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// TagSource abstracts the physical reader: whatever the hardware is, it
// reduces to a stream of UID strings. Keyboard-wedge USB readers type the UID
// followed by enter, so a device node read line-by-line is the common case.
type TagSource interface {
	// Scans yields one complete UID per read tag. The channel is closed when
	// the source is closed or the underlying device goes away.
	Scans() <-chan string
	Close() error
}

// ─── Line source (keyboard-wedge readers) ────────────────────────────────────

type lineSource struct {
	rc    io.ReadCloser
	scans chan string
}

// NewLineSource wraps a reader emitting newline-terminated UIDs. Blank lines
// and surrounding whitespace are discarded.
func NewLineSource(rc io.ReadCloser) TagSource {
	s := &lineSource{rc: rc, scans: make(chan string)}
	go s.run()
	return s
}

// OpenDevice opens a reader device node (e.g. /dev/input/event0 exposed
// through a line discipline, or a serial reader at /dev/ttyUSB0).
func OpenDevice(path string) (TagSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewLineSource(f), nil
}

func (s *lineSource) run() {
	defer close(s.scans)
	scanner := bufio.NewScanner(s.rc)
	for scanner.Scan() {
		uid := strings.TrimSpace(scanner.Text())
		if uid == "" {
			continue
		}
		s.scans <- uid
	}
}

func (s *lineSource) Scans() <-chan string { return s.scans }
func (s *lineSource) Close() error         { return s.rc.Close() }

// ─── Mock source (tests, environments without hardware) ──────────────────────

// MockSource feeds scans programmatically. Used by tests and by the admin
// mock-scan endpoint.
type MockSource struct {
	scans chan string
	done  chan struct{}
}

func NewMockSource() *MockSource {
	return &MockSource{scans: make(chan string), done: make(chan struct{})}
}

// Inject simulates presenting a tag to the reader.
func (m *MockSource) Inject(uid string) {
	select {
	case m.scans <- uid:
	case <-m.done:
	}
}

func (m *MockSource) Scans() <-chan string { return m.scans }

// Close unblocks pending Inject calls. The scans channel is deliberately left
// open — closing it could race a concurrent Inject; consumers stop through
// their own lifecycle instead of waiting for channel close.
func (m *MockSource) Close() error {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	return nil
}
