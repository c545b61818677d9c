package auth

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"github.com/goliatone/go-parish/internal/logging"
	"github.com/goliatone/go-parish/internal/permissions"
	"github.com/goliatone/go-parish/internal/records"
	rules "github.com/goliatone/go-parish/internal/validation"
	"github.com/goliatone/go-parish/pkg/interfaces"
)

const (
	UsersResource = "users"
	RolesResource = "roles"

	DefaultMinPasswordLength = 8
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrUnknownUser        = errors.New("auth: session user no longer exists")
	ErrSelfRevoke         = errors.New("auth: admins cannot revoke their own admin role")
)

// NewBunUserStore keys users by email so sign-in lookups hit the unique index.
func NewBunUserStore(db *bun.DB) *records.BunStore[*User] {
	return records.NewBunStore(db, records.BunConfig[*User]{
		Resource:        UsersResource,
		NewRecord:       func() *User { return &User{} },
		Identifier:      "email",
		IdentifierValue: func(u *User) string { return u.Email },
		Order:           records.NewestOrder,
	})
}

func NewMemoryUserStore() *records.MemoryStore[*User] {
	return records.NewMemoryStore(UsersResource, cloneUser,
		records.WithUnique("email", func(u *User) string { return u.Email }),
		records.WithLess(records.NewestFirst[*User]))
}

// Service owns accounts, password checks and role assignment.
type Service struct {
	users       records.Store[*User]
	roles       RoleStore
	cost        int
	minPassword int
	now         func() time.Time
	newID       func() uuid.UUID
	logger      interfaces.Logger
	activity    records.ActivityRecorder
}

type Option func(*Service)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost {
			s.cost = cost
		}
	}
}

func WithMinPasswordLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minPassword = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		s.logger = logging.Ensure(logger)
	}
}

func WithActivity(recorder records.ActivityRecorder) Option {
	return func(s *Service) {
		s.activity = recorder
	}
}

func NewService(users records.Store[*User], roles RoleStore, opts ...Option) *Service {
	s := &Service{
		users:       users,
		roles:       roles,
		cost:        bcrypt.DefaultCost,
		minPassword: DefaultMinPasswordLength,
		now:         time.Now,
		newID:       uuid.New,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SignUp creates an account without any role.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (*User, error) {
	email = normalizeEmail(email)
	err := validation.Errors{
		"email":    validation.Validate(email, validation.Required, rules.Email),
		"password": validation.Validate(password, validation.Required, validation.RuneLength(s.minPassword, 128)),
	}.Filter()
	if err := records.Invalid(UsersResource, err); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	user := &User{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(displayName),
	}
	user.Stamp(now, now)

	if _, err := s.users.FindOne(ctx, "email", email); err == nil {
		return nil, &records.ConflictError{Resource: UsersResource, Detail: "email already registered"}
	} else if !records.IsNotFound(err) {
		return nil, err
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("auth.signup", "user_id", created.ID.String())
	return created, nil
}

// SignIn checks credentials and records the sign-in time. Unknown emails and
// wrong passwords return the same error.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, error) {
	user, err := s.users.FindOne(ctx, "email", normalizeEmail(email))
	if err != nil {
		if records.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	now := s.now().UTC()
	user.LastSignInAt = &now
	user.UpdatedAt = now
	return s.users.Update(ctx, user, "last_sign_in_at", "updated_at")
}

// Resolve loads the user behind a session and derives the role from
// user_roles. It is called on every request and caches nothing.
func (s *Service) Resolve(ctx context.Context, userID uuid.UUID) (interfaces.Principal, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if records.IsNotFound(err) {
			return interfaces.Principal{}, ErrUnknownUser
		}
		return interfaces.Principal{}, err
	}
	roles, err := s.roles.RolesFor(ctx, userID)
	if err != nil {
		return interfaces.Principal{}, err
	}
	return interfaces.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Role:   permissions.StrongestRole(roles),
	}, nil
}

// Accounts lists every user with its effective role.
func (s *Service) Accounts(ctx context.Context) ([]Account, error) {
	users, _, err := s.users.List(ctx, records.ListOptions[*User]{})
	if err != nil {
		return nil, err
	}
	roles, err := s.roles.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Account, 0, len(users))
	for _, u := range users {
		out = append(out, Account{
			ID:           u.ID,
			Email:        u.Email,
			DisplayName:  u.DisplayName,
			Role:         permissions.StrongestRole(roles[u.ID]),
			LastSignInAt: u.LastSignInAt,
			CreatedAt:    u.CreatedAt,
		})
	}
	return out, nil
}

// Grant makes role the only role of userID. The acting admin, taken from ctx,
// cannot demote themselves.
func (s *Service) Grant(ctx context.Context, userID uuid.UUID, role string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if !slices.Contains(permissions.Roles, role) {
		return records.FieldError(RolesResource, "role", "must be one of admin, editor")
	}
	if s.isSelf(ctx, userID) && role != permissions.RoleAdmin {
		return ErrSelfRevoke
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.roles.Replace(ctx, userID, role, s.now().UTC()); err != nil {
		return err
	}
	s.record(ctx, "granted", userID, role)
	return nil
}

// Revoke removes every role of userID.
func (s *Service) Revoke(ctx context.Context, userID uuid.UUID) error {
	if s.isSelf(ctx, userID) {
		return ErrSelfRevoke
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return err
	}
	if err := s.roles.Clear(ctx, userID); err != nil {
		return err
	}
	s.record(ctx, "revoked", userID, "")
	return nil
}

// EnsureAdmin creates the account when missing and grants it the admin role.
// The password of an existing account is left unchanged.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, displayName string) (*User, error) {
	user, err := s.users.FindOne(ctx, "email", normalizeEmail(email))
	switch {
	case err == nil:
	case records.IsNotFound(err):
		if user, err = s.SignUp(ctx, email, password, displayName); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	if err := s.roles.Replace(ctx, user.ID, permissions.RoleAdmin, s.now().UTC()); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) isSelf(ctx context.Context, userID uuid.UUID) bool {
	actor, ok := permissions.PrincipalFromContext(ctx)
	return ok && actor.UserID == userID
}

func (s *Service) record(ctx context.Context, verb string, userID uuid.UUID, role string) {
	s.logger.Info("auth.role."+verb, "user_id", userID.String(), "role", role)
	if s.activity == nil {
		return
	}
	var data map[string]any
	if role != "" {
		data = map[string]any{"role": role}
	}
	s.activity.RecordActivity(ctx, verb, RolesResource, userID, data)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
