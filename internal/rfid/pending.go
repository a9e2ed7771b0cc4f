package rfid

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// pendingKey is the single Redis slot holding the most recently scanned tag
// awaiting assignment. A new scan in assign mode overwrites whatever was
// there — most-recent-UID-wins.
const (
	pendingKey = "rfid:assign_pending"
	pendingTTL = 10 * time.Minute
)

// ErrNoPending is returned when no tag is waiting for assignment.
var ErrNoPending = errors.New("no pending rfid assignment")

// PendingTag is the slot payload.
type PendingTag struct {
	RFIDUID   string `json:"rfid_uid"`
	Timestamp string `json:"timestamp"`
}

// PendingStore persists the single pending-assignment slot in Redis so it
// survives process restarts and is visible to every server instance.
type PendingStore struct {
	rdb *redis.Client
}

func NewPendingStore(rdb *redis.Client) *PendingStore {
	return &PendingStore{rdb: rdb}
}

func (p *PendingStore) Put(ctx context.Context, uid string) error {
	payload := PendingTag{
		RFIDUID:   uid,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.rdb.Set(ctx, pendingKey, data, pendingTTL).Err()
}

func (p *PendingStore) Get(ctx context.Context) (*PendingTag, error) {
	data, err := p.rdb.Get(ctx, pendingKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoPending
	}
	if err != nil {
		return nil, err
	}
	var tag PendingTag
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (p *PendingStore) Clear(ctx context.Context) error {
	return p.rdb.Del(ctx, pendingKey).Err()
}
