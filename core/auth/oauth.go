package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/skillswap/skillswap-api/api/web"
	"github.com/skillswap/skillswap-api/api/weberr"
	"github.com/skillswap/skillswap-api/core/user"
	"github.com/skillswap/skillswap-api/random"
	"github.com/skillswap/skillswap-api/validate"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

type ProviderConfig struct {
	Name        string
	Client      string
	Secret      string
	URL         string
	RedirectURL string
}

type Provider struct {
	name     string
	verifier *oidc.IDTokenVerifier
	oauth    oauth2.Config
}

// MakeProviders discovers the configured OIDC issuers. Entries with no
// client id are skipped so a deployment can run without any provider.
func MakeProviders(ctx context.Context, cfgs []ProviderConfig) (map[string]Provider, error) {
	provs := make(map[string]Provider)

	for _, cfg := range cfgs {
		if cfg.Client == "" {
			continue
		}

		p, err := oidc.NewProvider(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("discovering provider %q: %w", cfg.Name, err)
		}

		provs[cfg.Name] = Provider{
			name:     cfg.Name,
			verifier: p.Verifier(&oidc.Config{ClientID: cfg.Client}),
			oauth: oauth2.Config{
				ClientID:     cfg.Client,
				ClientSecret: cfg.Secret,
				Endpoint:     p.Endpoint(),
				RedirectURL:  cfg.RedirectURL,
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
		}
	}

	return provs, nil
}

func HandleOauthLogin(session *scs.SessionManager, providers map[string]Provider) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		name := web.Param(r, "provider")
		p, ok := providers[name]
		if !ok {
			err := fmt.Errorf("oauth provider %q not configured", name)
			return weberr.NewError(err, msgNoSuchOauth, http.StatusBadRequest)
		}

		state, err := random.StringSecure(24)
		if err != nil {
			return fmt.Errorf("generating oauth state: %w", err)
		}
		session.Put(ctx, sessionKeyState, state)

		http.Redirect(w, r, p.oauth.AuthCodeURL(state), http.StatusFound)
		return nil
	}
}

func HandleOauthCallback(store *user.Store, session *scs.SessionManager, providers map[string]Provider, redirectURL string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		name := web.Param(r, "provider")
		p, ok := providers[name]
		if !ok {
			err := fmt.Errorf("oauth provider %q not configured", name)
			return weberr.NewError(err, msgNoSuchOauth, http.StatusBadRequest)
		}

		state := session.PopString(ctx, sessionKeyState)
		if state == "" || state != r.URL.Query().Get("state") {
			return weberr.BadRequest(errors.New("oauth state mismatch"))
		}

		token, err := p.oauth.Exchange(ctx, r.URL.Query().Get("code"))
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("exchanging oauth code: %w", err))
		}

		rawID, ok := token.Extra("id_token").(string)
		if !ok {
			return weberr.BadRequest(errors.New("oauth response carries no id token"))
		}

		idToken, err := p.verifier.Verify(ctx, rawID)
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("verifying id token: %w", err))
		}

		var idc struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := idToken.Claims(&idc); err != nil {
			return fmt.Errorf("decoding id token claims: %w", err)
		}

		u, err := store.ByEmail(idc.Email)
		if errors.Is(err, user.ErrNotFound) {
			u, err = createOauthUser(store, idc.Name, idc.Email)
		}
		if err != nil {
			return fmt.Errorf("resolving oauth user: %w", err)
		}

		if err := startSession(ctx, session, u); err != nil {
			return fmt.Errorf("starting session: %w", err)
		}

		http.Redirect(w, r, redirectURL, http.StatusFound)
		return nil
	}
}

// createOauthUser registers a first-time OIDC user with an unguessable
// local password, so the password login path stays closed for them.
func createOauthUser(store *user.Store, name, email string) (user.User, error) {
	secret, err := random.StringSecure(32)
	if err != nil {
		return user.User{}, fmt.Errorf("generating placeholder password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hashing placeholder password: %w", err)
	}

	now := time.Now().UTC()
	u := user.User{
		ID:           validate.GenerateID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := store.Create(u); err != nil {
		return user.User{}, err
	}
	return u, nil
}
