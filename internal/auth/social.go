package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"dbs-store/internal/logger"
	"dbs-store/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// SocialProfile is the identity returned by a social provider.
type SocialProfile struct {
	ProviderAccountID string
	Email             string
	EmailVerified     bool
	Name              string
	Image             *string
}

type SocialProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*SocialProfile, error)
}

type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
}

func (c ProviderCredentials) enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

var appleEndpoint = oauth2.Endpoint{
	AuthURL:   "https://appleid.apple.com/auth/authorize",
	TokenURL:  "https://appleid.apple.com/auth/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// NewSocialProviders builds the providers that have both a client id and a
// secret configured. baseURL is the public origin used for callback URLs.
func NewSocialProviders(baseURL string, google, facebook, apple ProviderCredentials) []SocialProvider {
	callback := func(name string) string {
		return baseURL + "/api/auth/social/" + name + "/callback"
	}

	var providers []SocialProvider
	if google.enabled() {
		providers = append(providers, &oauthProvider{
			name: "google",
			config: &oauth2.Config{
				ClientID:     google.ClientID,
				ClientSecret: google.ClientSecret,
				Endpoint:     endpoints.Google,
				RedirectURL:  callback("google"),
				Scopes:       []string{"openid", "email", "profile"},
			},
			userInfoURL: "https://openidconnect.googleapis.com/v1/userinfo",
			decode:      decodeOIDCUserInfo,
		})
	}
	if facebook.enabled() {
		providers = append(providers, &oauthProvider{
			name: "facebook",
			config: &oauth2.Config{
				ClientID:     facebook.ClientID,
				ClientSecret: facebook.ClientSecret,
				Endpoint:     endpoints.Facebook,
				RedirectURL:  callback("facebook"),
				Scopes:       []string{"email", "public_profile"},
			},
			userInfoURL: "https://graph.facebook.com/me?fields=id,name,email,picture.type(large)",
			decode:      decodeFacebookUser,
		})
	}
	if apple.enabled() {
		providers = append(providers, &oauthProvider{
			name: "apple",
			config: &oauth2.Config{
				ClientID:     apple.ClientID,
				ClientSecret: apple.ClientSecret,
				Endpoint:     appleEndpoint,
				RedirectURL:  callback("apple"),
				Scopes:       []string{"name", "email"},
			},
			// requesting name or email makes Apple answer with a form POST
			authParams: []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("response_mode", "form_post")},
		})
	}
	return providers
}

type oauthProvider struct {
	name   string
	config *oauth2.Config

	// userInfoURL is fetched with the access token. Empty means the identity
	// comes from the id_token of the token response.
	userInfoURL string
	decode      func(body []byte) (*SocialProfile, error)
	authParams  []oauth2.AuthCodeOption
}

func (p *oauthProvider) Name() string { return p.name }

func (p *oauthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, p.authParams...)
}

func (p *oauthProvider) Exchange(ctx context.Context, code string) (*SocialProfile, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s token exchange: %w", p.name, err)
	}

	if p.userInfoURL == "" {
		return profileFromIDToken(tok)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.config.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s userinfo: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s userinfo: unexpected status %d", p.name, resp.StatusCode)
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s userinfo: %w", p.name, err)
	}
	return p.decode(body)
}

func decodeOIDCUserInfo(body []byte) (*SocialProfile, error) {
	var info struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	p := &SocialProfile{
		ProviderAccountID: info.Sub,
		Email:             info.Email,
		EmailVerified:     info.EmailVerified,
		Name:              info.Name,
	}
	if info.Picture != "" {
		p.Image = &info.Picture
	}
	return p, nil
}

func decodeFacebookUser(body []byte) (*SocialProfile, error) {
	var info struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	// Facebook only returns confirmed addresses
	p := &SocialProfile{
		ProviderAccountID: info.ID,
		Email:             info.Email,
		EmailVerified:     info.Email != "",
		Name:              info.Name,
	}
	if info.Picture.Data.URL != "" {
		p.Image = &info.Picture.Data.URL
	}
	return p, nil
}

// profileFromIDToken reads the identity claims of an id_token received
// directly from the provider's token endpoint over TLS.
func profileFromIDToken(tok *oauth2.Token) (*SocialProfile, error) {
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return nil, errors.New("token response has no id_token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse id_token: %w", err)
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)

	// Apple sends email_verified as either a bool or a string
	verified := false
	switch v := claims["email_verified"].(type) {
	case bool:
		verified = v
	case string:
		verified = v == "true"
	}

	return &SocialProfile{ProviderAccountID: sub, Email: email, EmailVerified: verified}, nil
}

func (s *service) SocialProviders() []string {
	names := make([]string, 0, len(s.social))
	for name := range s.social {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *service) SocialAuthURL(provider, state string) (string, error) {
	p, ok := s.social[provider]
	if !ok {
		return "", ErrProviderNotFound
	}
	return p.AuthCodeURL(state), nil
}

// SocialCallback finishes a social sign-in. The identity is matched by linked
// account first, then by email; otherwise a new user without password is created.
func (s *service) SocialCallback(ctx context.Context, provider, code string, meta RequestMeta) (*SignedIn, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SocialCallback"),
		zap.String("provider", provider),
	)

	p, ok := s.social[provider]
	if !ok {
		return nil, ErrProviderNotFound
	}

	profile, err := p.Exchange(ctx, code)
	if err != nil {
		log.Error("social exchange failed", zap.Error(err))
		return nil, wrapError(CodeInvalidState, err)
	}

	// 1️⃣ Already linked
	u, err := s.users.FindByAccount(ctx, provider, profile.ProviderAccountID)
	if err == nil {
		return s.openSession(ctx, u, meta)
	}
	if !errors.Is(err, user.ErrAccountNotFound) {
		return nil, err
	}

	if profile.Email == "" {
		return nil, newError(CodeSocialEmailMissing)
	}
	email := user.NormalizeEmail(profile.Email)

	// 2️⃣ Existing user with the same email
	u, err = s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		// 3️⃣ New user
		name := profile.Name
		if name == "" {
			name = email
		}
		u, err = s.users.Create(ctx, user.CreateParams{
			Name:          name,
			Email:         email,
			EmailVerified: profile.EmailVerified,
			Image:         profile.Image,
		})
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case !profile.EmailVerified:
		// an unconfirmed provider email must not take over an existing account
		log.Warn("refusing to link unverified social email", zap.String("user_id", u.ID))
		return nil, ErrUserAlreadyExists
	case !u.EmailVerified:
		if err := s.users.MarkEmailVerified(ctx, u.ID); err != nil {
			return nil, err
		}
		u.EmailVerified = true
	}

	if err := s.users.LinkAccount(ctx, u.ID, provider, profile.ProviderAccountID); err != nil {
		return nil, err
	}

	log.Info("social account linked", zap.String("user_id", u.ID))
	return s.openSession(ctx, u, meta)
}
