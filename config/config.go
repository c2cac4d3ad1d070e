package config

import "time"

type Config struct {
	Web     Web
	Cors    Cors
	CSRF    CSRF
	Session Session
	Catalog Catalog
	Enroll  Enroll
	Oauth   Oauth
	Email   Email
	Rate    Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:4000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string
}

type CSRF struct {
	// Key enables CSRF protection when set. Must be 32 bytes.
	Key string `conf:"mask"`
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
}

type Catalog struct {
	Path string `conf:"default:data/skills.json"`
}

type Enroll struct {
	SubmitDelay   time.Duration `conf:"default:2s"`
	DownloadDelay time.Duration `conf:"default:3s"`
}

type Oauth struct {
	DiscoveryTimeout time.Duration `conf:"default:30s"`
	LoginRedirectURL string        `conf:"default:/profile"`
	Google           OauthProvider
}

type OauthProvider struct {
	Client      string
	Secret      string `conf:"mask"`
	URL         string `conf:"default:https://accounts.google.com"`
	RedirectURL string
}

type Email struct {
	APIKey      string        `conf:"mask"`
	From        string        `conf:"default:no-reply@skillswap.dev"`
	RecoveryURL string        `conf:"default:http://localhost:3000/forgot-password"`
	TokenTTL    time.Duration `conf:"default:15m"`
}

type Rate struct {
	Burst    int           `conf:"default:10"`
	Expiry   int           `conf:"default:60"`
	Interval time.Duration `conf:"default:1s"`
}
