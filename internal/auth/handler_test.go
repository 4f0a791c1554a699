package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sekolahku/sekolahku/internal/auth"
	"github.com/sekolahku/sekolahku/internal/authz"
	"github.com/sekolahku/sekolahku/internal/shared"
	_ "github.com/sekolahku/sekolahku/testing"
)

const handlerTestSecret = "0123456789abcdef0123456789abcdef"

type memRepo struct {
	users map[string]*auth.User
}

func (m *memRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (m *memRepo) GetActive(ctx context.Context, userID string) (bool, error) {
	for _, u := range m.users {
		if u.ID == userID {
			return u.IsActive, nil
		}
	}
	return false, shared.ErrNotFound
}

func (m *memRepo) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	return nil
}

func (m *memRepo) CreateSession(ctx context.Context, id, userID string, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (m *memRepo) DeleteSession(ctx context.Context, id string) error { return nil }

func (m *memRepo) PurgeExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newTestHandler(t *testing.T, users ...*auth.User) (*auth.Handler, *auth.TokenManager) {
	t.Helper()
	repo := &memRepo{users: make(map[string]*auth.User)}
	for _, u := range users {
		repo.users[u.Email] = u
	}
	tokens, err := auth.NewTokenManager(handlerTestSecret, 8*time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	service := auth.NewService(repo, nil, nil)
	return auth.NewHandler(discardLogger(), service, tokens, false), tokens
}

func handlerTestUser(t *testing.T, email, password string, active bool) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &auth.User{
		ID:           "user-1",
		TenantID:     "school-42",
		Email:        email,
		PasswordHash: string(hashed),
		Name:         "Admin",
		Role:         authz.RoleAdmin,
		IsActive:     active,
	}
}

func postLogin(t *testing.T, h *auth.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := testRouter(h)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestLoginSuccessSetsCookieAndToken(t *testing.T) {
	user := handlerTestUser(t, "admin@school.com", "rahasia-negara", true)
	h, tokens := newTestHandler(t, user)

	res := postLogin(t, h, `{"email":"admin@school.com","password":"rahasia-negara"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
			User  struct {
				Role     string `json:"role"`
				TenantID string `json:"tenant_id"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Success || envelope.Data.Token == "" {
		t.Fatalf("unexpected envelope: %s", res.Body.String())
	}
	if envelope.Data.User.TenantID != "school-42" {
		t.Fatalf("tenant missing from payload")
	}

	sess, err := tokens.Resolve(envelope.Data.Token)
	if err != nil {
		t.Fatalf("returned token does not resolve: %v", err)
	}
	if sess.Role != authz.RoleAdmin {
		t.Fatalf("wrong role claim: %s", sess.Role)
	}

	var found bool
	for _, cookie := range res.Result().Cookies() {
		if cookie.Name == auth.CookieName && cookie.Value != "" && cookie.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Fatalf("session cookie not set")
	}
}

// Mixed case plus trailing space must log in identically to the canonical
// address.
func TestLoginNormalizesEmail(t *testing.T) {
	user := handlerTestUser(t, "admin@school.com", "rahasia-negara", true)
	h, _ := newTestHandler(t, user)

	res := postLogin(t, h, `{"email":"Admin@School.com ","password":"rahasia-negara"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for unnormalized email, got %d: %s", res.Code, res.Body.String())
	}
}

func TestLoginInvalidCredentialsUniform(t *testing.T) {
	user := handlerTestUser(t, "admin@school.com", "rahasia-negara", true)
	h, _ := newTestHandler(t, user)

	resUnknown := postLogin(t, h, `{"email":"ghost@school.com","password":"whatever"}`)
	resWrong := postLogin(t, h, `{"email":"admin@school.com","password":"wrong"}`)

	if resUnknown.Code != http.StatusUnauthorized || resWrong.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", resUnknown.Code, resWrong.Code)
	}
	if resUnknown.Body.String() != resWrong.Body.String() {
		t.Fatalf("responses must be identical to prevent enumeration:\n%s\n%s",
			resUnknown.Body.String(), resWrong.Body.String())
	}
}

func TestLoginDeactivatedAccount(t *testing.T) {
	user := handlerTestUser(t, "old@school.com", "rahasia-negara", false)
	h, _ := newTestHandler(t, user)

	res := postLogin(t, h, `{"email":"old@school.com","password":"rahasia-negara"}`)
	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Account deactivated") {
		t.Fatalf("expected deactivation message, got %s", res.Body.String())
	}
}

func TestLoginValidationErrors(t *testing.T) {
	h, _ := newTestHandler(t)

	res := postLogin(t, h, `{"email":"not-an-email","password":""}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	var envelope struct {
		Success bool              `json:"success"`
		Fields  map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Success {
		t.Fatalf("expected failure envelope")
	}
	// Both field errors come back at once, not just the first.
	if _, ok := envelope.Fields["Email"]; !ok {
		t.Fatalf("missing Email field error: %v", envelope.Fields)
	}
	if _, ok := envelope.Fields["Password"]; !ok {
		t.Fatalf("missing Password field error: %v", envelope.Fields)
	}
}

func TestMeRequiresSession(t *testing.T) {
	h, tokens := newTestHandler(t, handlerTestUser(t, "admin@school.com", "rahasia-negara", true))
	router := testRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", res.Code)
	}

	login := postLogin(t, h, `{"email":"admin@school.com","password":"rahasia-negara"}`)
	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+envelope.Data.Token)
	res = httptest.NewRecorder()
	withSession(router, tokens).ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 with bearer token, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), "school-42") {
		t.Fatalf("me payload missing tenant: %s", res.Body.String())
	}
}
