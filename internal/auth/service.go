package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dbs-store/internal/logger"
	"dbs-store/internal/metrics"
	"dbs-store/internal/user"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OTPSender delivers a one-time code by email.
type OTPSender interface {
	SendOTP(ctx context.Context, to, otp string, otpType OTPType) error
}

type Service interface {
	SignUp(ctx context.Context, name, email, password string, meta RequestMeta) (*SignedIn, error)
	SignIn(ctx context.Context, email, password string, meta RequestMeta) (*SignedIn, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*SessionWithUser, error)

	SendVerificationOTP(ctx context.Context, email string, otpType OTPType) error
	VerifyEmail(ctx context.Context, email, otp string) (*user.User, error)
	SignInWithOTP(ctx context.Context, email, otp string, meta RequestMeta) (*SignedIn, error)
	ForgetPassword(ctx context.Context, email string) error
	CheckResetOTP(ctx context.Context, email, otp string) (ResetCheck, error)
	ResetPassword(ctx context.Context, email, otp, password string) error

	ListOrganizations(ctx context.Context, userID string) ([]Organization, error)
	ListOrganizationsForToken(ctx context.Context, token string) ([]Organization, error)
	StoreRole(ctx context.Context, userID string) (Role, error)

	SocialProviders() []string
	SocialAuthURL(provider, state string) (string, error)
	SocialCallback(ctx context.Context, provider, code string, meta RequestMeta) (*SignedIn, error)
}

type Deps struct {
	Users         user.Repository
	Sessions      SessionRepository
	Verifications VerificationRepository
	Organizations OrganizationRepository
	Tokens        *TokenIssuer
	Mailer        OTPSender
	Validate      *validator.Validate
	Social        []SocialProvider
	SessionTTL    time.Duration
}

type service struct {
	users         user.Repository
	sessions      SessionRepository
	verifications VerificationRepository
	orgs          OrganizationRepository
	tokens        *TokenIssuer
	mailer        OTPSender
	validate      *validator.Validate
	social        map[string]SocialProvider
	ttl           time.Duration
	now           func() time.Time
}

func NewService(d Deps) Service {
	s := &service{
		users:         d.Users,
		sessions:      d.Sessions,
		verifications: d.Verifications,
		orgs:          d.Organizations,
		tokens:        d.Tokens,
		mailer:        d.Mailer,
		validate:      d.Validate,
		social:        make(map[string]SocialProvider, len(d.Social)),
		ttl:           d.SessionTTL,
		now:           time.Now,
	}
	if s.validate == nil {
		s.validate = validator.New()
	}
	if s.ttl <= 0 {
		s.ttl = DefaultSessionTTL
	}
	for _, p := range d.Social {
		s.social[p.Name()] = p
	}
	return s
}

func (s *service) normalizeEmail(email string) (string, error) {
	email = user.NormalizeEmail(email)
	if err := s.validate.Var(email, "required,email,max=254"); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (s *service) SignUp(ctx context.Context, name, email, password string, meta RequestMeta) (*SignedIn, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SignUp"),
	)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(CodeInvalidName)
	}
	email, err := s.normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	u, err := s.users.Create(ctx, user.CreateParams{Name: name, Email: email, PasswordHash: &hashed})
	if errors.Is(err, user.ErrEmailExists) {
		return nil, ErrUserAlreadyExists
	}
	if err != nil {
		log.Error("failed to create user", zap.Error(err))
		return nil, err
	}

	signedIn, err := s.openSession(ctx, u, meta)
	if err != nil {
		return nil, err
	}

	// the account exists either way; a lost email can be re-requested
	if err := s.SendVerificationOTP(ctx, email, OTPEmailVerification); err != nil {
		log.Warn("failed to send verification code after sign-up",
			zap.String("user_id", u.ID),
			zap.Error(err),
		)
	}

	log.Info("user signed up", zap.String("user_id", u.ID))
	return signedIn, nil
}

func (s *service) SignIn(ctx context.Context, email, password string, meta RequestMeta) (*SignedIn, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.HasPassword() || !CheckPasswordHash(password, *u.PasswordHash) {
		logger.FromCtx(ctx).Info("sign-in rejected", zap.String("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, u, meta)
}

func (s *service) openSession(ctx context.Context, u *user.User, meta RequestMeta) (*SignedIn, error) {
	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		ExpiresAt: now.Add(s.ttl),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	token, err := s.tokens.Sign(sess)
	if err != nil {
		return nil, err
	}

	return &SignedIn{Token: token, Session: sess, User: *u}, nil
}

func (s *service) SignOut(ctx context.Context, token string) error {
	sessionID, err := s.tokens.Parse(token)
	if err != nil {
		// nothing to revoke
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// GetSession resolves a token to its live session and user. A bad or unknown
// token is ErrUnauthorized, an expired one ErrSessionExpired. Any other error
// comes from storage.
func (s *service) GetSession(ctx context.Context, token string) (*SessionWithUser, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	sessionID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, wrapError(CodeUnauthorized, err)
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, sess.ID); err != nil {
			logger.FromCtx(ctx).Warn("failed to delete expired session", zap.Error(err))
		}
		return nil, ErrSessionExpired
	}

	u, err := s.users.FindByID(ctx, sess.UserID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}

	return &SessionWithUser{Session: *sess, User: *u}, nil
}

// SendVerificationOTP issues a fresh code for email, replacing any pending one.
// Unknown emails are accepted silently so the endpoint does not reveal accounts.
func (s *service) SendVerificationOTP(ctx context.Context, email string, otpType OTPType) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SendVerificationOTP"),
		zap.String("otp_type", string(otpType)),
	)

	if !otpType.Valid() {
		return newError(CodeInvalidOTPType)
	}
	email, err := s.normalizeEmail(email)
	if err != nil {
		return err
	}

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			log.Info("otp requested for unknown email")
			return nil
		}
		return err
	}

	otp, err := GenerateOTP()
	if err != nil {
		return err
	}

	if err := s.verifications.Upsert(ctx, Verification{
		Identifier: otpType.Identifier(email),
		Value:      encodeOTP(otp, 0),
		ExpiresAt:  s.now().Add(OTPTTL),
	}); err != nil {
		log.Error("failed to store otp", zap.Error(err))
		return err
	}

	if err := s.mailer.SendOTP(ctx, email, otp, otpType); err != nil {
		log.Error("failed to send otp email", zap.Error(err))
		return err
	}

	metrics.OTPSent.WithLabelValues(string(otpType)).Inc()
	log.Info("otp sent", zap.String("email", MaskEmail(email)))
	return nil
}

// consumeOTP checks otp against the pending challenge. A match deletes the
// challenge and a miss counts an attempt. Once OTPMaxAttempts misses are
// recorded the challenge is dropped on the next try. Every write is
// conditional on the value read, so overlapping guesses re-read and each
// one is counted.
func (s *service) consumeOTP(ctx context.Context, identifier, otp string) error {
	for range otpWriteRetries {
		v, err := s.verifications.Get(ctx, identifier)
		if errors.Is(err, ErrVerificationNotFound) {
			return ErrInvalidOTP
		}
		if err != nil {
			return err
		}

		if !s.now().Before(v.ExpiresAt) {
			if err := s.verifications.Delete(ctx, identifier); err != nil {
				logger.FromCtx(ctx).Warn("failed to delete expired otp", zap.Error(err))
			}
			return ErrOTPExpired
		}

		stored, attempts := decodeOTP(v.Value)
		if attempts >= OTPMaxAttempts {
			if err := s.verifications.Delete(ctx, identifier); err != nil {
				return err
			}
			return ErrTooManyAttempts
		}

		if stored != otp {
			ok, err := s.verifications.SwapValue(ctx, identifier, v.Value, encodeOTP(stored, attempts+1))
			if err != nil {
				return err
			}
			if ok {
				return ErrInvalidOTP
			}
			continue
		}

		ok, err := s.verifications.DeleteValue(ctx, identifier, v.Value)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}

	logger.FromCtx(ctx).Warn("otp challenge kept changing", zap.String("identifier", identifier))
	return ErrInvalidOTP
}

func (s *service) VerifyEmail(ctx context.Context, email, otp string) (*user.User, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	if err := s.consumeOTP(ctx, OTPEmailVerification.Identifier(email), otp); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, newError(CodeUserNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !u.EmailVerified {
		if err := s.users.MarkEmailVerified(ctx, u.ID); err != nil {
			return nil, err
		}
		u.EmailVerified = true
	}

	logger.FromCtx(ctx).Info("email verified", zap.String("user_id", u.ID))
	return u, nil
}

// SignInWithOTP opens a session for an existing user from a sign-in code.
// Receiving the code proves the address, so the email is marked verified.
func (s *service) SignInWithOTP(ctx context.Context, email, otp string, meta RequestMeta) (*SignedIn, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	if err := s.consumeOTP(ctx, OTPSignIn.Identifier(email), otp); err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInvalidOTP
	}
	if err != nil {
		return nil, err
	}
	if !u.EmailVerified {
		if err := s.users.MarkEmailVerified(ctx, u.ID); err != nil {
			return nil, err
		}
		u.EmailVerified = true
	}

	return s.openSession(ctx, u, meta)
}

// ForgetPassword sends a reset code when the account exists. It never reports
// whether it does; only a malformed email is an error.
func (s *service) ForgetPassword(ctx context.Context, email string) error {
	if err := s.SendVerificationOTP(ctx, email, OTPForgetPassword); err != nil {
		var ae *Error
		if errors.As(err, &ae) && ae.Code == CodeInvalidEmail {
			return err
		}
		logger.FromCtx(ctx).Error("forget password failed", zap.Error(err))
	}
	return nil
}

// CheckResetOTP tells whether otp matches the pending reset code without
// consuming it or counting an attempt.
func (s *service) CheckResetOTP(ctx context.Context, email, otp string) (ResetCheck, error) {
	v, err := s.verifications.Get(ctx, OTPForgetPassword.Identifier(user.NormalizeEmail(email)))
	if errors.Is(err, ErrVerificationNotFound) {
		return ResetCheck{Reason: ReasonNotFound}, nil
	}
	if err != nil {
		return ResetCheck{}, err
	}
	if !s.now().Before(v.ExpiresAt) {
		return ResetCheck{Reason: ReasonExpired}, nil
	}

	stored, _ := decodeOTP(v.Value)
	if stored != otp {
		return ResetCheck{Reason: ReasonInvalid}, nil
	}
	return ResetCheck{Valid: true}, nil
}

// ResetPassword sets a new password from a reset code and revokes every session of the user.
func (s *service) ResetPassword(ctx context.Context, email, otp, password string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ResetPassword"),
	)

	email, err := s.normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	if err := s.consumeOTP(ctx, OTPForgetPassword.Identifier(email), otp); err != nil {
		return err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return ErrInvalidOTP
	}
	if err != nil {
		return err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hashed); err != nil {
		log.Error("failed to update password", zap.Error(err))
		return err
	}
	if err := s.sessions.DeleteForUser(ctx, u.ID); err != nil {
		log.Error("failed to revoke sessions after reset", zap.Error(err))
		return err
	}

	log.Info("password reset", zap.String("user_id", u.ID))
	return nil
}

func (s *service) ListOrganizations(ctx context.Context, userID string) ([]Organization, error) {
	return s.orgs.ListForUser(ctx, userID)
}

// ListOrganizationsForToken lists the organizations of the user named by a
// session token, without loading the session. It lets callers run the
// organization lookup alongside GetSession.
func (s *service) ListOrganizationsForToken(ctx context.Context, token string) ([]Organization, error) {
	claims, err := s.tokens.ParseClaims(token)
	if err != nil || claims.Subject == "" {
		return nil, ErrUnauthorized
	}
	return s.orgs.ListForUser(ctx, claims.Subject)
}

// StoreRole is the user's role in the store organization. Non-members get ErrForbidden.
func (s *service) StoreRole(ctx context.Context, userID string) (Role, error) {
	orgs, err := s.orgs.ListForUser(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, o := range orgs {
		if o.Slug == StoreOrgSlug {
			return o.Role, nil
		}
	}
	return "", ErrForbidden
}
