package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/catalog-backend/internal/model"
)

// UserRepo reads and writes the 'users' table. Reads join 'roles' so the
// account's role is loaded in the same round trip regardless of whether
// the row uses the inline role column or the role_id reference.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const selectAccount = `SELECT u.id, u.name, u.email, u.password_hash, u.role, r.id, r.name, u.created_at
	FROM users u LEFT JOIN roles r ON r.id = u.role_id`

// Create looks up the role row for a.Role and inserts the user with both
// role shapes populated. On success a.ID and a.CreatedAt are set.
func (r *UserRepo) Create(ctx context.Context, a *model.Account) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))

	var roleID uint8
	err := r.DB.QueryRowContext(ctx, "SELECT id FROM roles WHERE name = ? LIMIT 1", a.Role.String()).Scan(&roleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRoleNotConfigured
		}
		return err
	}

	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, role_id) VALUES (?,?,?,?,?)",
		a.Name, a.Email, a.PasswordHash, a.Role.String(), roleID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	a.CreatedAt = time.Now().UTC()
	return nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx, selectAccount+" WHERE u.email = ? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.Account, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx, selectAccount+" WHERE u.id = ? LIMIT 1", id))
}

// ListRoles returns every configured role row ordered by id.
func (r *UserRepo) ListRoles(ctx context.Context) ([]model.RoleRecord, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM roles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.RoleRecord{}
	for rows.Next() {
		var rr model.RoleRecord
		if err := rows.Scan(&rr.ID, &rr.Name); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.Account, error) {
	var (
		a       model.Account
		inline  string
		refID   sql.NullInt16
		refName sql.NullString
	)
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &inline, &refID, &refName, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	var ref *model.RoleRecord
	if refID.Valid && refName.Valid {
		ref = &model.RoleRecord{ID: uint8(refID.Int16), Name: refName.String}
	}
	if a.Role, err = model.RoleFromStorage(inline, ref); err != nil {
		return nil, err
	}
	return &a, nil
}
