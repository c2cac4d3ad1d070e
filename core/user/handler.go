package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/skillswap/skillswap-api/api/web"
	"github.com/skillswap/skillswap-api/api/weberr"
	"github.com/skillswap/skillswap-api/core/claims"
	"github.com/skillswap/skillswap-api/core/enroll"
)

func HandleShowCurrent(store *Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		u, err := store.ByID(clm.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching user[%s]: %w", clm.UserID, err)
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

type profileView struct {
	User            User                `json:"user"`
	EnrolledCourses []enroll.Enrollment `json:"enrolledCourses"`
}

// HandleProfile renders the guarded profile: the account plus the
// courses enrolled in this session's lifetime.
func HandleProfile(store *Store, registry *enroll.Registry) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		u, err := store.ByID(clm.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return fmt.Errorf("fetching user[%s]: %w", clm.UserID, err)
		}

		v := profileView{
			User:            u,
			EnrolledCourses: registry.ByUser(u.ID),
		}
		return web.Respond(ctx, w, v, http.StatusOK)
	}
}
