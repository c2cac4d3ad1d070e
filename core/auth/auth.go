// Package auth owns the session boundary: email/password and OIDC
// sign-in, and the route guard protecting logged-in views.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/skillswap/skillswap-api/api/web"
	"github.com/skillswap/skillswap-api/api/weberr"
	"github.com/skillswap/skillswap-api/core/claims"
	"github.com/skillswap/skillswap-api/core/user"
)

const (
	sessionKeyUserID = "user_id"
	sessionKeyEmail  = "user_email"
	sessionKeyState  = "oauth_state"
)

// LoadAndSave adapts the scs cookie round-trip to the handler chain.
func LoadAndSave(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			var err error
			wrapped := session.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			}))

			wrapped.ServeHTTP(w, r.WithContext(ctx))
			return err
		}
		return h
	}
	return m
}

// Authenticate is the route guard. It re-evaluates the session on
// every entry: no current user means the view is never rendered and
// the client is pointed at /login.
func Authenticate(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			userID := session.GetString(ctx, sessionKeyUserID)
			if userID == "" {
				return weberr.NotAuthorized(errors.New("no user in session"))
			}

			ctx = claims.Set(ctx, claims.Claims{
				UserID: userID,
				Email:  session.GetString(ctx, sessionKeyEmail),
			})

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// startSession records the user in the session. The token is renewed
// against session fixation.
func startSession(ctx context.Context, session *scs.SessionManager, u user.User) error {
	if err := session.RenewToken(ctx); err != nil {
		return err
	}
	session.Put(ctx, sessionKeyUserID, u.ID)
	session.Put(ctx, sessionKeyEmail, u.Email)
	return nil
}

func endSession(ctx context.Context, session *scs.SessionManager) error {
	return session.Destroy(ctx)
}
