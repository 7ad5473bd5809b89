package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionManager(client, "test_session", "secret", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetUser("7")
	sess.Set("email", "sam@example.com")

	res := httptest.NewRecorder()
	if err := manager.Commit(ctx, res, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	cookies := res.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}

	// Second request carrying the cookie sees the same state.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookies[0])
	loaded, err := manager.Load(ctx, req2)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.User() != "7" {
		t.Fatalf("user = %q, want %q", loaded.User(), "7")
	}
	if loaded.Get("email") != "sam@example.com" {
		t.Fatalf("email = %q", loaded.Get("email"))
	}
}

func TestSessionDestroy(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sess.SetUser("7")
	res := httptest.NewRecorder()
	if err := manager.Commit(ctx, res, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}
	cookie := res.Result().Cookies()[0]

	manager.Destroy(sess)
	res2 := httptest.NewRecorder()
	if err := manager.Commit(ctx, res2, sess); err != nil {
		t.Fatalf("commit destroy: %v", err)
	}
	expired := res2.Result().Cookies()
	if len(expired) != 1 || expired[0].MaxAge != -1 {
		t.Fatalf("expected expiring cookie, got %+v", expired)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookie)
	loaded, err := manager.Load(ctx, req2)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.User() != "" {
		t.Fatalf("destroyed session still has user %q", loaded.User())
	}
}

func TestSignInRotatesSessionID(t *testing.T) {
	manager := newTestManager(t)
	ctx := context.Background()

	// A cookie naming a session Redis has never seen must not become the id
	// of the authenticated session.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "attacker-chosen"})
	sess, err := manager.Load(ctx, req)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sess.ID != "attacker-chosen" {
		t.Fatalf("pre-login id = %q", sess.ID)
	}

	sess.SetUser("7")
	res := httptest.NewRecorder()
	if err := manager.Commit(ctx, res, sess); err != nil {
		t.Fatalf("commit: %v", err)
	}

	cookies := res.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	if cookies[0].Value == "attacker-chosen" {
		t.Fatal("session id survived sign-in")
	}
	if sess.ID == "" || sess.ID != cookies[0].Value {
		t.Fatalf("id = %q, cookie = %q", sess.ID, cookies[0].Value)
	}
}

func TestEnsureIDStable(t *testing.T) {
	manager := newTestManager(t)
	sess := &Session{}

	id := manager.EnsureID(sess)
	if id == "" {
		t.Fatal("expected generated id")
	}
	if again := manager.EnsureID(sess); again != id {
		t.Fatalf("id changed: %q then %q", id, again)
	}
}
