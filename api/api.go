package api

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/api/background"
	"github.com/skillswap/skillswap-api/api/middleware"
	"github.com/skillswap/skillswap-api/api/web"
	"github.com/skillswap/skillswap-api/core/auth"
	"github.com/skillswap/skillswap-api/core/catalog"
	"github.com/skillswap/skillswap-api/core/enroll"
	"github.com/skillswap/skillswap-api/core/token"
	"github.com/skillswap/skillswap-api/core/user"
	"github.com/skillswap/skillswap-api/rate"
)

type APIConfig struct {
	CorsOrigin       string
	CSRFKey          string
	Log              logrus.FieldLogger
	Session          *scs.SessionManager
	Users            *user.Store
	Catalog          *catalog.Catalog
	Flow             *enroll.Flow
	Tokens           *token.Store
	Mailer           token.Mailer
	TokenTTL         time.Duration
	Background       *background.Background
	Providers        map[string]auth.Provider
	LoginRedirectURL string
	Metrics          *prometheus.Registry
	AuthLimiter      *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, auth.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))

	// Metrics sits outside the error renderer so it observes the
	// status the renderer writes.
	if cfg.Metrics != nil {
		a.mw = append(a.mw, middleware.Metrics(cfg.Metrics))
	}

	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	authen := auth.Authenticate(cfg.Session)

	var limited web.Middleware
	if cfg.AuthLimiter != nil {
		limited = middleware.RateLimit(cfg.AuthLimiter)
	}

	a.Handle(http.MethodPost, "/auth/signup", auth.HandleSignup(cfg.Users, cfg.Session), limited)
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.Users, cfg.Session), limited)
	a.Handle(http.MethodPost, "/auth/logout", auth.HandleLogout(cfg.Session))
	a.Handle(http.MethodGet, "/auth/oauth-login/{provider}", auth.HandleOauthLogin(cfg.Session, cfg.Providers))
	a.Handle(http.MethodGet, "/auth/oauth-callback/{provider}", auth.HandleOauthCallback(cfg.Users, cfg.Session, cfg.Providers, cfg.LoginRedirectURL))

	a.Handle(http.MethodPost, "/tokens/recover", token.HandleRecovery(cfg.Log, cfg.Users, cfg.Tokens, cfg.Mailer, cfg.TokenTTL, cfg.Background), limited)
	a.Handle(http.MethodPost, "/tokens/reset", token.HandleReset(cfg.Users, cfg.Tokens), limited)

	a.Handle(http.MethodGet, "/skills", catalog.HandleList(cfg.Catalog))
	a.Handle(http.MethodGet, "/skill/{id:[0-9]+}", catalog.HandleShow(cfg.Catalog))

	a.Handle(http.MethodGet, "/enroll/{id:[0-9]+}", enroll.HandleForm(cfg.Flow))
	a.Handle(http.MethodPost, "/enroll/{id:[0-9]+}", enroll.HandleSubmit(cfg.Flow), authen)
	a.Handle(http.MethodGet, "/enroll/{id:[0-9]+}/status", enroll.HandleStatus(cfg.Flow), authen)
	a.Handle(http.MethodGet, "/enroll-success/{id:[0-9]+}", enroll.HandleConfirmation(cfg.Flow))
	a.Handle(http.MethodPost, "/enroll-success/{id:[0-9]+}/download", enroll.HandleDownload(cfg.Flow), authen)

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(cfg.Users), authen)
	a.Handle(http.MethodGet, "/profile", user.HandleProfile(cfg.Users, cfg.Flow.Registry()), authen)

	if cfg.Metrics != nil {
		a.Router.Handle("/metrics", promhttp.HandlerFor(cfg.Metrics, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	if cfg.CSRFKey != "" {
		return csrf.Protect([]byte(cfg.CSRFKey), csrf.Path("/"))(a.Router)
	}

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
