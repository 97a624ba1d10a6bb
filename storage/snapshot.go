package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
)

// Slot is a typed snapshot slot bound to a single persistence key. It holds no
// reference to the records it serializes; callers hand it a full copy on every
// save.
type Slot[R any] struct {
	backend Backend
	key     string
	logger  *log.Logger
}

// NewSlot creates a Slot over the given backend and key.
func NewSlot[R any](backend Backend, key string, logger *log.Logger) *Slot[R] {
	if backend == nil {
		panic("storage.NewSlot: backend is nil")
	}
	if key == "" {
		panic("storage.NewSlot: key is empty")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Slot[R]{backend: backend, key: key, logger: logger}
}

// Key returns the persistence key this slot writes to.
func (s *Slot[R]) Key() string {
	return s.key
}

// Load returns the persisted records. A missing, unreadable, or malformed
// snapshot yields an empty result with a warning; the widget must come up
// usable no matter what is in the slot.
func (s *Slot[R]) Load(ctx context.Context) []R {
	data, err := s.backend.Read(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.WithError(err).WithField("key", s.key).Warn("snapshot load failed, starting empty")
		}
		return nil
	}
	var records []R
	if err := sonic.Unmarshal(data, &records); err != nil {
		s.logger.WithError(err).WithField("key", s.key).Warn("snapshot corrupted, starting empty")
		return nil
	}
	return records
}

// Save serializes the full record set and overwrites any prior snapshot.
func (s *Slot[R]) Save(ctx context.Context, records []R) error {
	data, err := sonic.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", s.key, err)
	}
	if err := s.backend.Write(ctx, s.key, data); err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.key, err)
	}
	return nil
}

// Clear removes the persisted snapshot entirely.
func (s *Slot[R]) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.key); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("clear snapshot %s: %w", s.key, err)
	}
	return nil
}
