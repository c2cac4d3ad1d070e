package test

import (
	"net/http"
	"testing"
	"time"
)

func TestPasswordRecovery(t *testing.T) {
	env := NewTestEnv(t)

	env.Signup(t, "Ada", "ada@example.com", "correct-horse")
	env.Logout(t)

	body := map[string]string{"email": "ada@example.com"}
	if code := env.PostJSON(t, "/tokens/recover", body, nil); code != http.StatusAccepted {
		t.Fatalf("recover: status %d", code)
	}

	var tok string
	select {
	case tok = <-env.Mailer.tokens:
	case <-time.After(time.Second):
		t.Fatal("recovery token never sent")
	}

	reset := map[string]string{"token": tok, "password": "battery-staple"}
	if code := env.PostJSON(t, "/tokens/reset", reset, nil); code != http.StatusNoContent {
		t.Fatalf("reset: status %d", code)
	}

	// Old password no longer works, the new one does.
	old := map[string]string{"email": "ada@example.com", "password": "correct-horse"}
	if code := env.PostJSON(t, "/auth/login", old, nil); code != http.StatusUnauthorized {
		t.Fatalf("old password: expected 401, got %d", code)
	}
	env.Login(t, "ada@example.com", "battery-staple")

	// The token was consumed on first use.
	var errResp struct {
		Error string `json:"error"`
	}
	reset = map[string]string{"token": tok, "password": "another-pass"}
	if code := env.PostJSON(t, "/tokens/reset", reset, &errResp); code != http.StatusUnprocessableEntity {
		t.Fatalf("reuse: expected 422, got %d", code)
	}
	if errResp.Error != "invalid or expired recovery token" {
		t.Fatalf("unexpected message %q", errResp.Error)
	}
}

func TestRecoveryUnknownEmail(t *testing.T) {
	env := NewTestEnv(t)

	// Accepted regardless, and no email goes out.
	body := map[string]string{"email": "nobody@example.com"}
	if code := env.PostJSON(t, "/tokens/recover", body, nil); code != http.StatusAccepted {
		t.Fatalf("recover: status %d", code)
	}

	select {
	case tok := <-env.Mailer.tokens:
		t.Fatalf("unexpected recovery email with token %q", tok)
	case <-time.After(50 * time.Millisecond):
	}
}
