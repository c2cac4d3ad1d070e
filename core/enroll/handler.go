package enroll

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/skillswap/skillswap-api/api/web"
	"github.com/skillswap/skillswap-api/api/weberr"
	"github.com/skillswap/skillswap-api/core/catalog"
	"github.com/skillswap/skillswap-api/core/claims"
)

const advisoryMessage = "Skill data loaded from fallback source."

// previewLen bounds the description shown on the confirmation view.
const previewLen = 150

type formView struct {
	Course   catalog.Course `json:"course"`
	Draft    Draft          `json:"draft"`
	State    State          `json:"state"`
	Advisory string         `json:"advisory,omitempty"`
}

// HandleForm serves the enrollment form context: the resolved course
// with the selection pre-locked to it.
func HandleForm(f *Flow) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		crs, advisory := f.ResolveCourse(id)

		v := formView{
			Course: crs,
			Draft:  Draft{Course: crs.Name, PaymentMethod: MethodCard},
			State:  StateIdle,
		}
		if advisory {
			v.Advisory = advisoryMessage
		}
		return web.Respond(ctx, w, v, http.StatusOK)
	}
}

// HandleSubmit runs submitEnrollment for the logged-in user and
// answers with the handoff token and the confirmation view to move to.
func HandleSubmit(f *Flow) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		var d Draft
		if err := web.Decode(w, r, &d); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding enrollment draft: %w", err))
		}

		res, err := f.Submit(ctx, clm.UserID, id, d)
		if err != nil {
			var ide *InvalidDraftError
			if errors.As(err, &ide) {
				return weberr.NewError(err, ide.Err.Error(), http.StatusUnprocessableEntity)
			}
			return fmt.Errorf("submitting enrollment for course[%d]: %w", id, err)
		}

		return web.Respond(ctx, w, res, http.StatusOK)
	}
}

// HandleStatus exposes the submission machine for polling.
func HandleStatus(f *Flow) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		st := struct {
			State State `json:"state"`
		}{f.Status(clm.UserID, id)}

		return web.Respond(ctx, w, st, http.StatusOK)
	}
}

type confirmationView struct {
	CourseName         string  `json:"courseName"`
	Price              float64 `json:"price"`
	PriceDisplay       string  `json:"priceDisplay"`
	ImageURL           string  `json:"image"`
	DescriptionPreview string  `json:"descriptionPreview"`
	Advisory           string  `json:"advisory,omitempty"`
}

// HandleConfirmation renders the enrollment confirmation. With a valid
// one-shot token the handoff payload drives the header; without one
// (direct link, reload) the course is re-resolved from the catalog.
// The description preview is bounded either way.
func HandleConfirmation(f *Flow) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		crs, advisory := f.ResolveCourse(id)

		v := confirmationView{
			CourseName:         crs.Name,
			Price:              crs.Price,
			ImageURL:           crs.ImageURL,
			DescriptionPreview: preview(crs.Description),
		}
		if advisory {
			v.Advisory = advisoryMessage
		}

		if token := r.URL.Query().Get("token"); token != "" {
			if hc, ok := f.TakeHandoff(token); ok {
				v.CourseName = hc.CourseName
				v.Price = hc.Price
				v.ImageURL = hc.ImageURL
			}
		}

		v.PriceDisplay = fmt.Sprintf("$%.2f", v.Price)
		return web.Respond(ctx, w, v, http.StatusOK)
	}
}

// HandleDownload starts (or observes) the course-material download.
// Re-entry never restarts the timer.
func HandleDownload(f *Flow) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		state, notice := f.StartDownload(clm.UserID, id)

		v := struct {
			State  DownloadState `json:"state"`
			Notice string        `json:"notice,omitempty"`
		}{state, notice}

		return web.Respond(ctx, w, v, http.StatusOK)
	}
}

// preview truncates a description to the bounded confirmation length,
// always marking the cut with an ellipsis.
func preview(s string) string {
	r := []rune(s)
	if len(r) > previewLen {
		r = r[:previewLen]
	}
	return string(r) + "..."
}
