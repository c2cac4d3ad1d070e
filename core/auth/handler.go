package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/skillswap/skillswap-api/api/web"
	"github.com/skillswap/skillswap-api/api/weberr"
	"github.com/skillswap/skillswap-api/core/user"
	"github.com/skillswap/skillswap-api/validate"
	"golang.org/x/crypto/bcrypt"
)

// Inline failure messages; auth errors never propagate past the view.
const (
	msgEmailTaken  = "email address already in use"
	msgWeakSecret  = "password must be at least 8 characters"
	msgBadLogin    = "invalid email or password"
	msgNoSuchOauth = "sign-in method not enabled"
)

type SignupNew struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginNew struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func HandleSignup(store *user.Store, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var s SignupNew
		if err := web.Decode(w, r, &s); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding signup: %w", err))
		}

		if err := validate.Check(s); err != nil {
			if len(s.Password) < 8 {
				return weberr.NewError(err, msgWeakSecret, http.StatusUnprocessableEntity)
			}
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		now := time.Now().UTC()
		u := user.User{
			ID:           validate.GenerateID(),
			Name:         s.Name,
			Email:        s.Email,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := store.Create(u); err != nil {
			if errors.Is(err, user.ErrEmailTaken) {
				return weberr.NewError(err, msgEmailTaken, http.StatusUnprocessableEntity)
			}
			return fmt.Errorf("creating user: %w", err)
		}

		if err := startSession(ctx, session, u); err != nil {
			return fmt.Errorf("starting session: %w", err)
		}

		return web.Respond(ctx, w, u, http.StatusCreated)
	}
}

func HandleLogin(store *user.Store, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var l LoginNew
		if err := web.Decode(w, r, &l); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding login: %w", err))
		}

		if err := validate.Check(l); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		// Unknown email and wrong password produce the same message.
		u, err := store.ByEmail(l.Email)
		if err != nil {
			return weberr.NewError(err, msgBadLogin, http.StatusUnauthorized)
		}

		if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(l.Password)); err != nil {
			return weberr.NewError(err, msgBadLogin, http.StatusUnauthorized)
		}

		if err := startSession(ctx, session, u); err != nil {
			return fmt.Errorf("starting session: %w", err)
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

func HandleLogout(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := endSession(ctx, session); err != nil {
			return fmt.Errorf("ending session: %w", err)
		}
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
