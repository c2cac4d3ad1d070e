package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/api"
	"github.com/skillswap/skillswap-api/api/background"
	"github.com/skillswap/skillswap-api/core/catalog"
	"github.com/skillswap/skillswap-api/core/enroll"
	"github.com/skillswap/skillswap-api/core/token"
	"github.com/skillswap/skillswap-api/core/user"
)

// mockMailer captures recovery tokens instead of sending email.
type mockMailer struct {
	tokens chan string
}

func (m *mockMailer) SendRecovery(ctx context.Context, to, token string) error {
	m.tokens <- token
	return nil
}

type TestEnv struct {
	URL    string
	Server *httptest.Server
	Users  *user.Store
	Flow   *enroll.Flow
	Mailer *mockMailer

	client *http.Client
}

func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	cat, err := catalog.Load("../../data/skills.json")
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	session := scs.New()
	session.Lifetime = time.Hour

	bg := background.New(log)

	flow := enroll.NewFlow(enroll.Config{
		Log:           log,
		Catalog:       cat,
		Processor:     enroll.SimulatedProcessor{Delay: 5 * time.Millisecond},
		Background:    bg,
		DownloadDelay: 5 * time.Millisecond,
	})

	users := user.NewStore()
	tokens := token.NewStore()
	mailer := &mockMailer{tokens: make(chan string, 1)}

	mux := api.APIMux(api.APIConfig{
		Log:              log,
		Session:          session,
		Users:            users,
		Catalog:          cat,
		Flow:             flow,
		Tokens:           tokens,
		Mailer:           mailer,
		TokenTTL:         time.Minute,
		Background:       bg,
		LoginRedirectURL: "/profile",
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}

	return &TestEnv{
		URL:    srv.URL,
		Server: srv,
		Users:  users,
		Flow:   flow,
		Mailer: mailer,
		client: &http.Client{Jar: jar},
	}
}

func (e *TestEnv) Client() *http.Client { return e.client }

// PostJSON sends body as JSON and decodes the response into out when
// out is non-nil. It returns the status code.
func (e *TestEnv) PostJSON(t *testing.T, path string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	w, err := e.client.Post(e.URL+path, "application/json", &buf)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer w.Body.Close()

	if out != nil {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decoding POST %s response: %v", path, err)
		}
	}
	return w.StatusCode
}

func (e *TestEnv) GetJSON(t *testing.T, path string, out any) int {
	t.Helper()

	w, err := e.client.Get(e.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer w.Body.Close()

	if out != nil {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decoding GET %s response: %v", path, err)
		}
	}
	return w.StatusCode
}

func (e *TestEnv) Signup(t *testing.T, name, email, pass string) {
	t.Helper()

	body := map[string]string{"name": name, "email": email, "password": pass}
	if code := e.PostJSON(t, "/auth/signup", body, nil); code != http.StatusCreated {
		t.Fatalf("signup: status %d", code)
	}
}

func (e *TestEnv) Login(t *testing.T, email, pass string) {
	t.Helper()

	body := map[string]string{"email": email, "password": pass}
	if code := e.PostJSON(t, "/auth/login", body, nil); code != http.StatusOK {
		t.Fatalf("login: status %d", code)
	}
}

func (e *TestEnv) Logout(t *testing.T) {
	t.Helper()

	if code := e.PostJSON(t, "/auth/logout", nil, nil); code != http.StatusNoContent {
		t.Fatalf("logout: status %d", code)
	}
}

func paypalDraft(name, email string) map[string]any {
	return map[string]any{
		"name":          name,
		"email":         email,
		"passion":       "personal hobby",
		"paymentMethod": "paypal",
	}
}

func cardDraft(name, email string) map[string]any {
	return map[string]any{
		"name":          name,
		"email":         email,
		"paymentMethod": "card",
		"cardNumber":    "4242424242424242",
		"cardName":      name,
		"expiryDate":    "12/28",
		"cvv":           "123",
	}
}
