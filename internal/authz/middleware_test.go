package authz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func middlewareUnderTest() Middleware {
	return Middleware{Engine: NewEngine(DefaultPermissions())}
}

func decodeEnvelope(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return body
}

func TestRequireModuleUnauthenticated(t *testing.T) {
	mw := middlewareUnderTest()
	handler := mw.RequireModule(ModuleFinance)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/finance/fees", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	body := decodeEnvelope(t, res)
	if body["success"] != false {
		t.Fatalf("expected success=false envelope, got %v", body)
	}
}

func TestRequireModuleForbidden(t *testing.T) {
	mw := middlewareUnderTest()
	handler := mw.RequireModule(ModuleFinance)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/finance/fees", nil)
	req = req.WithContext(ContextWithSession(req.Context(), activeSession(RoleTeacher, "school-1")))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	body := decodeEnvelope(t, res)
	if body["error"] != "Forbidden" {
		t.Fatalf("expected Forbidden error, got %v", body)
	}
}

func TestRequireModulePlacesScopeInContext(t *testing.T) {
	mw := middlewareUnderTest()
	var seen TenantScope
	handler := mw.RequireModule(ModuleFinance)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ScopeFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/finance/fees", nil)
	req = req.WithContext(ContextWithSession(req.Context(), activeSession(RoleAccountant, "school-42")))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if seen.TenantID != "school-42" {
		t.Fatalf("scope not propagated, got %+v", seen)
	}
}

func TestRequireModuleDeactivatedSession(t *testing.T) {
	mw := middlewareUnderTest()
	handler := mw.RequireModule(ModuleStudents)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	sess := activeSession(RoleAdmin, "school-1")
	sess.IsActive = false
	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	req = req.WithContext(ContextWithSession(req.Context(), sess))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for deactivated account, got %d", res.Code)
	}
}

func TestRequireMinimumRole(t *testing.T) {
	mw := middlewareUnderTest()
	handler := mw.RequireMinimumRole(RolePrincipal)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	req = req.WithContext(ContextWithSession(req.Context(), activeSession(RoleAdmin, "school-1")))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("admin outranks principal, expected 200, got %d", res.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/reports", nil)
	req = req.WithContext(ContextWithSession(req.Context(), activeSession(RoleTeacher, "school-1")))
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusForbidden {
		t.Fatalf("teacher below principal, expected 403, got %d", res.Code)
	}
}
