package test

import (
	"net/http"
	"testing"
)

func TestSignupDuplicateEmail(t *testing.T) {
	env := NewTestEnv(t)

	env.Signup(t, "Ada", "ada@example.com", "correct-horse")
	env.Logout(t)

	var errResp struct {
		Error string `json:"error"`
	}
	body := map[string]string{"name": "Also Ada", "email": "ADA@example.com", "password": "battery-staple"}
	if code := env.PostJSON(t, "/auth/signup", body, &errResp); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if errResp.Error != "email address already in use" {
		t.Fatalf("unexpected message %q", errResp.Error)
	}
}

func TestSignupWeakPassword(t *testing.T) {
	env := NewTestEnv(t)

	var errResp struct {
		Error string `json:"error"`
	}
	body := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "short"}
	if code := env.PostJSON(t, "/auth/signup", body, &errResp); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
	if errResp.Error != "password must be at least 8 characters" {
		t.Fatalf("unexpected message %q", errResp.Error)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	env := NewTestEnv(t)

	env.Signup(t, "Ada", "ada@example.com", "correct-horse")
	env.Logout(t)

	var errResp struct {
		Error string `json:"error"`
	}

	// Wrong password and unknown email come back indistinguishable.
	body := map[string]string{"email": "ada@example.com", "password": "wrong-password"}
	if code := env.PostJSON(t, "/auth/login", body, &errResp); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	wrongPass := errResp.Error

	body = map[string]string{"email": "nobody@example.com", "password": "wrong-password"}
	if code := env.PostJSON(t, "/auth/login", body, &errResp); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if errResp.Error != wrongPass {
		t.Fatalf("messages diverge: %q vs %q", wrongPass, errResp.Error)
	}
}

func TestProfileRequiresLogin(t *testing.T) {
	env := NewTestEnv(t)

	var errResp struct {
		Error    string `json:"error"`
		Redirect string `json:"redirect"`
	}
	if code := env.GetJSON(t, "/profile", &errResp); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
	if errResp.Redirect != "/login" {
		t.Fatalf("expected login redirect, got %q", errResp.Redirect)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	env := NewTestEnv(t)

	env.Signup(t, "Ada", "ada@example.com", "correct-horse")

	if code := env.GetJSON(t, "/profile", nil); code != http.StatusOK {
		t.Fatalf("profile while logged in: status %d", code)
	}

	env.Logout(t)

	if code := env.GetJSON(t, "/profile", nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", code)
	}
}

func TestLoginRestoresProfile(t *testing.T) {
	env := NewTestEnv(t)

	env.Signup(t, "Ada", "ada@example.com", "correct-horse")
	env.Logout(t)
	env.Login(t, "ada@example.com", "correct-horse")

	var prof struct {
		User struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if code := env.GetJSON(t, "/profile", &prof); code != http.StatusOK {
		t.Fatalf("profile: status %d", code)
	}
	if prof.User.Email != "ada@example.com" {
		t.Fatalf("unexpected profile user: %+v", prof.User)
	}
}
