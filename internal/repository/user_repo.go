package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/smartsella/syntecxhub-shop-api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

var ErrDuplicateEmail = errors.New("user already exists with this email")
var ErrUserNotFound = errors.New("user not found")

// BcryptCost matches the work factor the accounts were originally hashed with.
const BcryptCost = 10

// Lockout policy: 5 consecutive failures lock the account for 15 minutes.
const (
	MaxLoginAttempts = 5
	LockDuration     = 15 * time.Minute
)

// UserRepository is the credential store. The password column is write-only:
// every write path hashes the plaintext here, nothing ever persists it raw.
type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `userid, name, email, passwordhash, phone, role, is_verified,
	login_attempts, lock_until, last_login, created_at, deleted_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.UserID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.Role,
		&u.IsVerified, &u.LoginAttempts, &u.LockUntil, &u.LastLogin, &u.CreatedAt, &u.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create validates the fields, hashes the password and inserts the user in the
// unverified state. Returns ErrDuplicateEmail on a unique violation.
func (r *UserRepository) Create(ctx context.Context, name, email, password, phone string) (*model.User, error) {
	if err := model.ValidateRegistration(name, email, password, phone); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(email)
	query := `
		INSERT INTO users (name, email, passwordhash, phone, role, is_verified, login_attempts, created_at)
		VALUES ($1, $2, $3, $4, 'user', false, 0, now())
		RETURNING ` + userColumns
	u, err := scanUser(r.DB.QueryRow(ctx, query, name, email, string(hash), phone))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return u, nil
}

// GetByEmail matches case-insensitively and includes the password hash.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1) AND deleted_at IS NULL`
	return scanUser(r.DB.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE userid = $1 AND deleted_at IS NULL`
	return scanUser(r.DB.QueryRow(ctx, query, id))
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = lower($1))`
	if err := r.DB.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// SetVerified flips the one-way unverified -> verified transition.
func (r *UserRepository) SetVerified(ctx context.Context, email string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET is_verified = true WHERE email = lower($1)`, email)
	return err
}

// IncrementLoginAttempts applies the failed-login accounting in one atomic
// statement so concurrent failures never lose updates:
//   - an expired lock means a fresh window: attempts = 1, lock cleared;
//   - otherwise attempts + 1, and the account locks for LockDuration when the
//     post-increment count reaches the threshold while unlocked.
func (r *UserRepository) IncrementLoginAttempts(ctx context.Context, userID int64) error {
	query := `
		UPDATE users SET
			login_attempts = CASE
				WHEN lock_until IS NOT NULL AND lock_until < now() THEN 1
				ELSE login_attempts + 1
			END,
			lock_until = CASE
				WHEN lock_until IS NOT NULL AND lock_until < now() THEN NULL
				WHEN lock_until IS NULL AND login_attempts + 1 >= $2 THEN now() + make_interval(mins => $3)
				ELSE lock_until
			END
		WHERE userid = $1`
	_, err := r.DB.Exec(ctx, query, userID, MaxLoginAttempts, int(LockDuration.Minutes()))
	return err
}

// ResetLoginState clears the attempt counter and lock and stamps last_login.
func (r *UserRepository) ResetLoginState(ctx context.Context, userID int64) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE users
		SET login_attempts = 0, lock_until = NULL, last_login = now()
		WHERE userid = $1`, userID)
	return err
}

// UpdatePassword re-hashes and persists a new password.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, password string) error {
	if err := model.ValidatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return err
	}
	tag, err := r.DB.Exec(ctx,
		`UPDATE users SET passwordhash = $1 WHERE userid = $2`, string(hash), userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateDetails persists name/email/phone changes, re-validating constraints.
func (r *UserRepository) UpdateDetails(ctx context.Context, u *model.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	query := `UPDATE users SET name = $1, email = lower($2), phone = $3 WHERE userid = $4`
	tag, err := r.DB.Exec(ctx, query, u.Name, u.Email, u.Phone, u.UserID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// List returns all customer accounts for the admin console.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY userid`
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *u)
	}
	return list, rows.Err()
}

// Ban soft-deletes a user; a banned user cannot authenticate.
func (r *UserRepository) Ban(ctx context.Context, userID int64) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE users SET deleted_at = now() WHERE userid = $1 AND deleted_at IS NULL`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("user not found or already banned")
	}
	return nil
}

func (r *UserRepository) Unban(ctx context.Context, userID int64) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE users SET deleted_at = NULL WHERE userid = $1 AND deleted_at IS NOT NULL`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("user not found or not banned")
	}
	return nil
}
