package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/skillswap/skillswap-api/api/web"
	"github.com/zenazn/goji/web/mutil"
)

// Metrics observes every request on the given registry. The path label
// is the route template, not the raw URL, so /skill/1 and /skill/2
// share a series.
func Metrics(reg *prometheus.Registry) web.Middleware {
	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	reg.MustRegister(requestTotal, requestDuration)

	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			start := time.Now()

			lw := mutil.WrapWriter(w)
			err := handler(ctx, lw, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					path = tpl
				}
			}

			status := strconv.Itoa(lw.Status())
			requestTotal.WithLabelValues(r.Method, path, status).Inc()
			requestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())

			return err
		}
		return h
	}
	return m
}
