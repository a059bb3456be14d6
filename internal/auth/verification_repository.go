package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrVerificationNotFound = errors.New("verification not found")

// VerificationRepository stores OTP challenges, one per identifier.
type VerificationRepository interface {
	Upsert(ctx context.Context, v Verification) error
	Get(ctx context.Context, identifier string) (*Verification, error)
	// SwapValue and DeleteValue only act when the stored value still equals
	// old and report whether they did.
	SwapValue(ctx context.Context, identifier, old, value string) (bool, error)
	DeleteValue(ctx context.Context, identifier, old string) (bool, error)
	Delete(ctx context.Context, identifier string) error
}

type verificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

// Upsert replaces any pending challenge for the same identifier.
func (r *verificationRepository) Upsert(ctx context.Context, v Verification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verifications (identifier, value, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (identifier)
		DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = NOW()
	`, v.Identifier, v.Value, v.ExpiresAt)
	return err
}

func (r *verificationRepository) Get(ctx context.Context, identifier string) (*Verification, error) {
	var (
		v         Verification
		expiresAt time.Time
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT identifier, value, expires_at FROM verifications WHERE identifier = $1
	`, identifier).Scan(&v.Identifier, &v.Value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVerificationNotFound
	}
	if err != nil {
		return nil, err
	}
	v.ExpiresAt = expiresAt
	return &v, nil
}

func (r *verificationRepository) SwapValue(ctx context.Context, identifier, old, value string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE verifications SET value = $1, updated_at = NOW() WHERE identifier = $2 AND value = $3
	`, value, identifier, old)
	if err != nil {
		return false, err
	}
	return changedOne(res)
}

func (r *verificationRepository) DeleteValue(ctx context.Context, identifier, old string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM verifications WHERE identifier = $1 AND value = $2
	`, identifier, old)
	if err != nil {
		return false, err
	}
	return changedOne(res)
}

func changedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *verificationRepository) Delete(ctx context.Context, identifier string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM verifications WHERE identifier = $1`, identifier)
	return err
}
