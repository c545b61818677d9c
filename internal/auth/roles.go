package auth

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/identity"
)

// RoleStore reads and replaces user roles. Replace and Clear are atomic.
type RoleStore interface {
	RolesFor(ctx context.Context, userID uuid.UUID) ([]string, error)
	All(ctx context.Context) (map[uuid.UUID][]string, error)
	// Replace makes role the only role of userID.
	Replace(ctx context.Context, userID uuid.UUID, role string, now time.Time) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type BunRoleStore struct {
	db *bun.DB
}

func NewBunRoleStore(db *bun.DB) *BunRoleStore {
	return &BunRoleStore{db: db}
}

func (s *BunRoleStore) RolesFor(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var roles []string
	err := s.db.NewSelect().
		Model((*UserRole)(nil)).
		Column("role").
		Where("?TableAlias.user_id = ?", userID).
		Scan(ctx, &roles)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return roles, nil
}

func (s *BunRoleStore) All(ctx context.Context) (map[uuid.UUID][]string, error) {
	var rows []UserRole
	if err := s.db.NewSelect().Model(&rows).Scan(ctx); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	out := make(map[uuid.UUID][]string, len(rows))
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Role)
	}
	return out, nil
}

func (s *BunRoleStore) Replace(ctx context.Context, userID uuid.UUID, role string, now time.Time) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*UserRole)(nil)).Where("user_id = ?", userID).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&UserRole{
			ID:        identity.RoleUUID(userID, role),
			UserID:    userID,
			Role:      role,
			CreatedAt: now,
			UpdatedAt: now,
		}).Exec(ctx)
		return err
	})
}

func (s *BunRoleStore) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.NewDelete().Model((*UserRole)(nil)).Where("user_id = ?", userID).Exec(ctx)
	return err
}

type MemoryRoleStore struct {
	mu    sync.RWMutex
	roles map[uuid.UUID][]string
}

func NewMemoryRoleStore() *MemoryRoleStore {
	return &MemoryRoleStore{roles: map[uuid.UUID][]string{}}
}

func (s *MemoryRoleStore) RolesFor(_ context.Context, userID uuid.UUID) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.roles[userID]...), nil
}

func (s *MemoryRoleStore) All(_ context.Context) (map[uuid.UUID][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uuid.UUID][]string, len(s.roles))
	for id, roles := range s.roles {
		out[id] = append([]string(nil), roles...)
	}
	return out, nil
}

func (s *MemoryRoleStore) Replace(_ context.Context, userID uuid.UUID, role string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[userID] = []string{role}
	return nil
}

func (s *MemoryRoleStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles, userID)
	return nil
}
