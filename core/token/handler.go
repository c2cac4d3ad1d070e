package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/api/background"
	"github.com/skillswap/skillswap-api/api/web"
	"github.com/skillswap/skillswap-api/api/weberr"
	"github.com/skillswap/skillswap-api/core/user"
	"github.com/skillswap/skillswap-api/validate"
	"golang.org/x/crypto/bcrypt"
)

type RecoverNew struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetNew struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// HandleRecovery accepts a recovery request and, when the account
// exists, mails a token in the background. The response is 202 either
// way so account existence is not leaked.
func HandleRecovery(log logrus.FieldLogger, users *user.Store, tokens *Store, mailer Mailer, ttl time.Duration, bg *background.Background) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var rec RecoverNew
		if err := web.Decode(w, r, &rec); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding recovery request: %w", err))
		}

		if err := validate.Check(rec); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		u, err := users.ByEmail(rec.Email)
		if err == nil {
			tok, err := tokens.Issue(u.ID, ttl)
			if err != nil {
				return fmt.Errorf("issuing recovery token: %w", err)
			}

			bg.Add(func() {
				sendCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := mailer.SendRecovery(sendCtx, u.Email, tok); err != nil {
					log.WithField("message", err).Error("sending recovery email")
				}
			})
		}

		return web.Respond(ctx, w, nil, http.StatusAccepted)
	}
}

func HandleReset(users *user.Store, tokens *Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var res ResetNew
		if err := web.Decode(w, r, &res); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding reset request: %w", err))
		}

		if err := validate.Check(res); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusUnprocessableEntity)
		}

		userID, ok := tokens.Consume(res.Token)
		if !ok {
			err := errors.New("recovery token unknown or expired")
			return weberr.NewError(err, "invalid or expired recovery token", http.StatusUnprocessableEntity)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(res.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		if err := users.UpdatePassword(userID, hash); err != nil {
			return fmt.Errorf("updating password for user[%s]: %w", userID, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
