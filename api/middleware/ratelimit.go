package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/skillswap/skillswap-api/api/web"
	"github.com/skillswap/skillswap-api/api/weberr"
	"github.com/skillswap/skillswap-api/rate"
)

// RateLimit throttles per client address. Applied to the auth and
// token routes, which are the only ones worth brute-forcing.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !lim.Check(ip) {
				err := errors.New("client exceeded the request rate limit")
				return weberr.NewError(err, "too many requests", http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
