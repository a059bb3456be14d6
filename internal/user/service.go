package user

import (
	"context"
	"strings"
	"unicode/utf8"

	"dbs-store/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateName(ctx context.Context, userID, name string) (*Profile, error)
}

type service struct {
	repo Repository
	mask func(string) string
}

// NewService builds the profile service. mask renders the email shown on the
// profile page; nil shows it unmasked.
func NewService(repo Repository, mask func(string) string) Service {
	if mask == nil {
		mask = func(s string) string { return s }
	}
	return &service{repo: repo, mask: mask}
}

func (s *service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		logger.FromCtx(ctx).Warn("profile lookup failed", zap.Error(err))
		return nil, err
	}
	return s.toProfile(u), nil
}

func (s *service) UpdateName(ctx context.Context, userID, name string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return nil, ErrInvalidName
	}

	if err := s.repo.UpdateName(ctx, userID, name); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("profile name updated")
	return s.GetProfile(ctx, userID)
}

func (s *service) toProfile(u *User) *Profile {
	return &Profile{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		MaskedEmail:   s.mask(u.Email),
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
		MemberSince:   u.CreatedAt,
	}
}
