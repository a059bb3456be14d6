package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

var ErrOrganizationNotFound = errors.New("organization not found")

type OrganizationRepository interface {
	ListForUser(ctx context.Context, userID string) ([]Organization, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	Create(ctx context.Context, name, slug string) (*Organization, error)
	AddMember(ctx context.Context, orgID, userID string, role Role) error
}

type organizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

// ListForUser returns the organizations the user belongs to, with the user's role in each.
func (r *organizationRepository) ListForUser(ctx context.Context, userID string) ([]Organization, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.name, o.slug, m.role
		FROM members m
		INNER JOIN organizations o ON o.id = m.organization_id
		WHERE m.user_id = $1
		ORDER BY o.name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := []Organization{}
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Slug, &o.Role); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*Organization, error) {
	var o Organization
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, slug FROM organizations WHERE slug = $1`, slug,
	).Scan(&o.ID, &o.Name, &o.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *organizationRepository) Create(ctx context.Context, name, slug string) (*Organization, error) {
	o := Organization{ID: uuid.NewString(), Name: name, Slug: slug}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, slug, created_at) VALUES ($1, $2, $3, NOW())
	`, o.ID, o.Name, o.Slug)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *organizationRepository) AddMember(ctx context.Context, orgID, userID string, role Role) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO members (id, organization_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (organization_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`, uuid.NewString(), orgID, userID, role)
	return err
}
