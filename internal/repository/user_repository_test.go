package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/catalog-backend/internal/model"
)

var accountCols = []string{"id", "name", "email", "password_hash", "role", "r.id", "r.name", "created_at"}

func newUserRepoMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func TestUserRepo_Create(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM roles WHERE name = ?")).
		WithArgs("seller").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Ann", "ann@x.com", "hash", "seller", 2).
		WillReturnResult(sqlmock.NewResult(7, 1))

	a := &model.Account{Name: "Ann", Email: "  Ann@X.com ", PasswordHash: "hash", Role: model.RoleSeller}
	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, uint64(7), a.ID)
	assert.Equal(t, "ann@x.com", a.Email)
	assert.False(t, a.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_RoleNotConfigured(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM roles")).
		WithArgs("buyer").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.Create(context.Background(), &model.Account{Email: "b@x.com", Role: model.RoleBuyer})
	assert.ErrorIs(t, err, ErrRoleNotConfigured)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM roles")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := repo.Create(context.Background(), &model.Account{Email: "b@x.com", Role: model.RoleBuyer})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserRepo_GetByEmail_RoleShapes(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("foreign role entity wins over inline column", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN roles r ON r.id = u.role_id WHERE u.email = ?")).
			WithArgs("s@x.com").
			WillReturnRows(sqlmock.NewRows(accountCols).AddRow(1, "S", "s@x.com", "h", "buyer", 2, "seller", created))

		a, err := repo.GetByEmail(context.Background(), "S@x.com")
		require.NoError(t, err)
		assert.Equal(t, model.RoleSeller, a.Role)
		assert.Equal(t, created, a.CreatedAt)
	})

	t.Run("inline column when no role_id", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE u.email = ?")).
			WillReturnRows(sqlmock.NewRows(accountCols).AddRow(1, "S", "s@x.com", "h", "Seller", nil, nil, created))

		a, err := repo.GetByEmail(context.Background(), "s@x.com")
		require.NoError(t, err)
		assert.Equal(t, model.RoleSeller, a.Role)
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE u.email = ?")).
			WillReturnRows(sqlmock.NewRows(accountCols))

		a, err := repo.GetByEmail(context.Background(), "nobody@x.com")
		assert.Nil(t, a)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("unknown stored role", func(t *testing.T) {
		repo, mock := newUserRepoMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE u.email = ?")).
			WillReturnRows(sqlmock.NewRows(accountCols).AddRow(1, "S", "s@x.com", "h", "owner", nil, nil, created))

		_, err := repo.GetByEmail(context.Background(), "s@x.com")
		assert.ErrorIs(t, err, model.ErrUnknownRole)
	})
}

func TestUserRepo_ListRoles(t *testing.T) {
	repo, mock := newUserRepoMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM roles ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "admin").AddRow(2, "seller"))

	roles, err := repo.ListRoles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.RoleRecord{{ID: 1, Name: "admin"}, {ID: 2, Name: "seller"}}, roles)
}
