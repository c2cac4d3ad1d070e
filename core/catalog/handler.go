package catalog

import (
	"context"
	"net/http"

	"github.com/skillswap/skillswap-api/api/web"
	"github.com/skillswap/skillswap-api/api/weberr"
)

const advisoryMessage = "Skill data loaded from fallback source."

type detail struct {
	Course
	Advisory string `json:"advisory,omitempty"`
}

func HandleList(c *Catalog) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, c.List(), http.StatusOK)
	}
}

func HandleShow(c *Catalog) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id, err := web.IntParam(r, "id")
		if err != nil {
			return weberr.BadRequest(err)
		}

		crs, advisory := c.Lookup(id)

		d := detail{Course: crs}
		if advisory {
			d.Advisory = advisoryMessage
		}
		return web.Respond(ctx, w, d, http.StatusOK)
	}
}
