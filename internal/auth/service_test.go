package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/catalog-backend/internal/config"
	"github.com/iliyamo/catalog-backend/internal/model"
	"github.com/iliyamo/catalog-backend/internal/queue"
)

func newTestService(store AccountStore, events EventPublisher) *Service {
	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, BcryptCost: bcrypt.MinCost}
	return NewService(cfg, store, events, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestService_RegisterLoginAuthenticate(t *testing.T) {
	ctx := context.Background()
	events := &recordingPublisher{}
	svc := newTestService(newMemStore(), events)

	acct, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleBuyer, acct.Role)
	assert.NotEqual(t, "password123", acct.PasswordHash)

	tok, err := svc.Login(ctx, "a@x.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Value)

	got, err := svc.Authenticate(ctx, tok.Value)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, model.RoleBuyer, got.Role)

	_, err = svc.Authorize(got, SellerGate)
	assert.ErrorIs(t, err, ErrForbidden)

	require.Len(t, events.events, 1)
	assert.Equal(t, queue.EventAccountRegistered, events.events[0].Type)
	assert.Equal(t, acct.ID, events.events[0].UserID)
}

func TestService_RegisterNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemStore(), nil)

	_, err := svc.Register(ctx, RegisterInput{Name: "B", Email: "  Bob@X.com ", Password: "password123", Role: "Seller"})
	require.NoError(t, err)

	tok, err := svc.Login(ctx, "BOB@x.com", "password123")
	require.NoError(t, err)
	a, err := svc.Authenticate(ctx, tok.Value)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, a.Role)
}

func TestService_RegisterAdminRejectedBeforePersistence(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, nil)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "E", Email: "e@x.com", Password: "password123", Role: "admin"})
	assert.ErrorIs(t, err, ErrAdminSelfRegistration)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, store.creates)
}

func TestService_RegisterValidation(t *testing.T) {
	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	cases := map[string]RegisterInput{
		"missing name":   {Email: "a@x.com", Password: "password123"},
		"bad email":      {Name: "A", Email: "ax.com", Password: "password123"},
		"short password": {Name: "A", Email: "a@x.com", Password: "short"},
		"long password":  {Name: "A", Email: "a@x.com", Password: string(long)},
		"unknown role":   {Name: "A", Email: "a@x.com", Password: "password123", Role: "owner"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			store := newMemStore()
			_, err := newTestService(store, nil).Register(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, 0, store.creates)
		})
	}
}

func TestService_RegisterRoleNotConfigured(t *testing.T) {
	store := newMemStore()
	store.missingRoles[model.RoleSeller] = true

	_, err := newTestService(store, nil).Register(context.Background(),
		RegisterInput{Name: "S", Email: "s@x.com", Password: "password123", Role: "seller"})
	assert.ErrorIs(t, err, ErrRoleNotConfigured)
	assert.Equal(t, OutcomeMisconfigured, Classify(err))
}

func TestService_ConcurrentDuplicateRegistration(t *testing.T) {
	svc := newTestService(newMemStore(), nil)
	in := RegisterInput{Name: "A", Email: "a@x.com", Password: "password123"}

	const n = 2
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.Register(context.Background(), in)
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicateEmail):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, dup)
}

func TestService_LoginFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMemStore(), nil)
	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost@x.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_AuthenticateDeletedAccount(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := newTestService(store, nil)
	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)
	tok, err := svc.Login(ctx, "a@x.com", "password123")
	require.NoError(t, err)

	store.mu.Lock()
	delete(store.byEmail, "a@x.com")
	store.mu.Unlock()

	_, err = svc.Authenticate(ctx, tok.Value)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestService_PublishFailureIsNotFatal(t *testing.T) {
	events := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(newMemStore(), events)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@x.com", Password: "password123"})
	assert.NoError(t, err)
	assert.Len(t, events.events, 1)
}
