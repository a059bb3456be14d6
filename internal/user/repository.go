package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"dbs-store/internal/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	MarkEmailVerified(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateName(ctx context.Context, id, name string) error
	FindByAccount(ctx context.Context, provider, providerAccountID string) (*User, error)
	LinkAccount(ctx context.Context, userID, provider, providerAccountID string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, name, email, email_verified, password_hash, image, created_at, updated_at`

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *repository) Create(ctx context.Context, params CreateParams) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
	)

	u, err := scanUser(r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, email_verified, password_hash, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING `+userColumns,
		uuid.NewString(),
		params.Name,
		NormalizeEmail(params.Email),
		params.EmailVerified,
		params.PasswordHash,
		params.Image,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			log.Info("email already registered")
			return nil, ErrEmailExists
		}
		log.Error("db: failed to insert user", zap.Error(err))
		return nil, err
	}

	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1",
		NormalizeEmail(email),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1",
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *repository) MarkEmailVerified(ctx context.Context, id string) error {
	return r.exec(ctx, "MarkEmailVerified",
		`UPDATE users SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
}

func (r *repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.exec(ctx, "UpdatePassword",
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, id)
}

func (r *repository) UpdateName(ctx context.Context, id, name string) error {
	return r.exec(ctx, "UpdateName",
		`UPDATE users SET name = $1, updated_at = NOW() WHERE id = $2`, name, id)
}

func (r *repository) FindByAccount(ctx context.Context, provider, providerAccountID string) (*User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `
		SELECT u.id, u.name, u.email, u.email_verified, u.password_hash, u.image, u.created_at, u.updated_at
		FROM accounts a
		INNER JOIN users u ON u.id = a.user_id
		WHERE a.provider = $1 AND a.provider_account_id = $2
	`, provider, providerAccountID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return u, err
}

func (r *repository) LinkAccount(ctx context.Context, userID, provider, providerAccountID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, provider, provider_account_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (provider, provider_account_id) DO NOTHING
	`, uuid.NewString(), userID, provider, providerAccountID)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to link account",
			zap.String("provider", provider),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) exec(ctx context.Context, method, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("db: update failed",
			zap.String("layer", "repository"),
			zap.String("method", method),
			zap.Error(err),
		)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u     User
		hash  sql.NullString
		image sql.NullString
	)
	if err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.EmailVerified, &hash, &image, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if hash.Valid {
		u.PasswordHash = &hash.String
	}
	if image.Valid {
		u.Image = &image.String
	}
	return &u, nil
}
