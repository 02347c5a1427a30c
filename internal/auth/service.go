package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/iliyamo/catalog-backend/internal/config"
	"github.com/iliyamo/catalog-backend/internal/model"
	"github.com/iliyamo/catalog-backend/internal/queue"
)

// AccountStore is the persistence the service needs. *repository.UserRepo
// satisfies it.
type AccountStore interface {
	AccountFinder
	GetByID(ctx context.Context, id uint64) (*model.Account, error)
	Create(ctx context.Context, a *model.Account) error
	ListRoles(ctx context.Context) ([]model.RoleRecord, error)
}

// EventPublisher delivers domain events. Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// Password length bounds. bcrypt ignores input past 72 bytes.
const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

// Service ties the hasher, token codec, resolver and role gates together
// into the operations handlers call.
type Service struct {
	accounts AccountStore
	hasher   Hasher
	codec    *TokenCodec
	resolver Resolver
	events   EventPublisher
	ttl      time.Duration
	log      *slog.Logger
}

// NewService wires a Service from cfg. events may be nil.
func NewService(cfg config.Config, accounts AccountStore, events EventPublisher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		accounts: accounts,
		hasher:   NewHasher(cfg.BcryptCost),
		codec:    NewTokenCodec(cfg.JWTSecret, time.Now),
		resolver: Resolver{Accounts: accounts},
		events:   events,
		ttl:      cfg.AccessTTL(),
		log:      log,
	}
}

// RegisterInput is the data accepted for self-registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string // empty means buyer
}

// Register validates in, hashes the password and stores a new account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.Account, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !strings.Contains(email, "@") || len(email) > 255 {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if n := len(in.Password); n < minPasswordLen || n > maxPasswordLen {
		return nil, fmt.Errorf("%w: password must be %d to %d bytes", ErrValidation, minPasswordLen, maxPasswordLen)
	}

	role := model.RoleBuyer
	if strings.TrimSpace(in.Role) != "" {
		r, err := model.ParseRole(in.Role)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown role", ErrValidation)
		}
		role = r
	}
	if role == model.RoleAdmin {
		return nil, ErrAdminSelfRegistration
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a := &model.Account{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "account registered", slog.Uint64("user_id", a.ID), slog.String("role", role.String()))
	s.publish(ctx, queue.AccountRegistered(a, time.Now()))
	return a, nil
}

// Login checks credentials and issues an access token for the account.
func (s *Service) Login(ctx context.Context, email, password string) (Token, error) {
	a, err := s.accounts.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if Classify(err) == OutcomeUnauthenticated {
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, err
	}
	if !s.hasher.Verify(password, a.PasswordHash) {
		return Token{}, ErrInvalidCredentials
	}
	return s.codec.Issue(a.Email, s.ttl)
}

// Authenticate verifies a bearer token and resolves its account.
func (s *Service) Authenticate(ctx context.Context, bearer string) (*model.Account, error) {
	subject, err := s.codec.Verify(bearer)
	if err != nil {
		return nil, err
	}
	return s.resolver.Resolve(ctx, subject)
}

// Authorize runs a through gate.
func (s *Service) Authorize(a *model.Account, gate RoleGate) (*model.Account, error) {
	return gate.Check(a)
}

// Roles lists the configured role rows.
func (s *Service) Roles(ctx context.Context) ([]model.RoleRecord, error) {
	return s.accounts.ListRoles(ctx)
}

func (s *Service) publish(ctx context.Context, ev queue.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.WarnContext(ctx, "publish event failed", slog.String("type", ev.Type), slog.Any("err", err))
	}
}

// NormalizeEmail performs case-insensitive canonicalization.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
