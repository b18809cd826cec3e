// Package session holds the per-user active-organization selection. The value
// is an opaque organization id; validating it against the user's memberships
// is the membership resolver's job, and the resolver is the only writer.
package session

import (
	"errors"
	"fmt"
	"sync"

	"contact-directory-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists the active-organization id across requests for each
// authenticated user.
type Store interface {
	Get(userID uuid.UUID) (uuid.UUID, bool, error)
	Set(userID, orgID uuid.UUID) error
	Clear(userID uuid.UUID) error
}

// GormStore backs the session carrier with the user_sessions table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a database-backed session store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Get returns the stored active organization id for the user, if any.
func (s *GormStore) Get(userID uuid.UUID) (uuid.UUID, bool, error) {
	var sess models.UserSession
	err := s.db.First(&sess, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("get session: %w", err)
	}
	return sess.ActiveOrganizationID, true, nil
}

// Set upserts the active organization id for the user.
func (s *GormStore) Set(userID, orgID uuid.UUID) error {
	sess := models.UserSession{UserID: userID, ActiveOrganizationID: orgID}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"active_organization_id", "updated_at"}),
	}).Create(&sess).Error
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Clear removes the stored selection for the user.
func (s *GormStore) Clear(userID uuid.UUID) error {
	err := s.db.Delete(&models.UserSession{}, "user_id = ?", userID).Error
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// MemoryStore is an in-process store for tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[uuid.UUID]uuid.UUID
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[uuid.UUID]uuid.UUID)}
}

// Get returns the stored active organization id for the user, if any.
func (s *MemoryStore) Get(userID uuid.UUID) (uuid.UUID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orgID, ok := s.values[userID]
	return orgID, ok, nil
}

// Set stores the active organization id for the user.
func (s *MemoryStore) Set(userID, orgID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[userID] = orgID
	return nil
}

// Clear removes the stored selection for the user.
func (s *MemoryStore) Clear(userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, userID)
	return nil
}
