package gallery

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kdimtricp/galleryguru/internal/models"
)

// LockCollection hides a collection behind a passcode. Locking an already
// locked collection replaces its passcode.
func (s *Store) LockCollection(ctx context.Context, id, passcode string) error {
	if passcode == "" {
		return ErrEmptyPasscode
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), s.passcodeCost)
	if err != nil {
		return fmt.Errorf("hashing passcode: %w", err)
	}

	return s.updateLock(ctx, id, EventCollectionLocked, func(c *models.Collection) error {
		c.Locked = true
		c.PasscodeHash = string(hash)
		return nil
	})
}

func (s *Store) UnlockCollection(ctx context.Context, id, passcode string) error {
	return s.updateLock(ctx, id, EventCollectionUnlocked, func(c *models.Collection) error {
		if !c.Locked {
			return ErrNotLocked
		}
		err := bcrypt.CompareHashAndPassword([]byte(c.PasscodeHash), []byte(passcode))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrWrongPasscode
		}
		if err != nil {
			return fmt.Errorf("checking passcode: %w", err)
		}
		c.Locked = false
		c.PasscodeHash = ""
		return nil
	})
}

func (s *Store) updateLock(ctx context.Context, id string, typ EventType, fn func(*models.Collection) error) error {
	s.mu.Lock()
	c, _ := s.collectionLocked(id)
	if c == nil {
		s.mu.Unlock()
		return ErrCollectionNotFound
	}
	updated := *c
	if err := fn(&updated); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.catalog.UpdateCollectionLock(ctx, &updated); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("saving lock state for %s: %w", c.Name, err)
	}
	c.Locked = updated.Locked
	c.PasscodeHash = updated.PasscodeHash
	name := c.Name
	s.mu.Unlock()

	s.emit(Event{Type: typ, CollectionID: id, Name: name})
	return nil
}
