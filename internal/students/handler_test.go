package students

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/sekolahku/internal/authz"
)

func testRouter(h *Handler, sess *authz.Session, scope authz.TenantScope) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := authz.ContextWithSession(req.Context(), sess)
			ctx = authz.ContextWithScope(ctx, scope)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Route("/students", h.MountRoutes)
	return r
}

func newTestHandler() (*Handler, *Service) {
	svc := NewService(newMockRepository())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(logger, svc), svc
}

func adminSession(tenantID string) *authz.Session {
	return &authz.Session{
		UserID:    "admin-1",
		Role:      authz.RoleAdmin,
		TenantID:  tenantID,
		IsActive:  true,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestNextAdmissionNumberRoute(t *testing.T) {
	h, svc := newTestHandler()
	sess := adminSession("school-1")
	router := testRouter(h, sess, authz.TenantScope{TenantID: "school-1"})

	_, err := svc.Enroll(context.Background(), "school-1", sess.UserID, CreateStudentRequest{
		Name: "Siti", ClassName: "7A",
	})
	require.NoError(t, err)

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/students/next-admission-number", nil))
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			AdmissionNumber string `json:"admission_number"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, fmt.Sprintf("ADM-%d-0002", time.Now().Year()), envelope.Data.AdmissionNumber)
}

func TestNextAdmissionNumberGlobalScope(t *testing.T) {
	h, _ := newTestHandler()
	sess := adminSession("")
	sess.Role = authz.RoleSuperAdmin
	router := testRouter(h, sess, authz.TenantScope{})

	// Without an explicit tenant there is nothing to count against.
	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/students/next-admission-number", nil))
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/students/next-admission-number?tenant_id=school-7", nil))
	assert.Equal(t, http.StatusOK, res.Code, res.Body.String())
}

func TestStudentRoutesEnrollShowList(t *testing.T) {
	h, _ := newTestHandler()
	sess := adminSession("school-1")
	router := testRouter(h, sess, authz.TenantScope{TenantID: "school-1"})

	body := `{"name":"Agus Pratama","class_name":"7B"}`
	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/students/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var created struct {
		Data Student `json:"data"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	assert.Equal(t, "school-1", created.Data.TenantID)
	assert.Equal(t, sess.UserID, created.Data.CreatedBy)

	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/students/"+created.Data.ID, nil))
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())

	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/students/", nil))
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	var listed struct {
		Data []Student `json:"data"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &listed))
	assert.Len(t, listed.Data, 1)
}

func TestStudentRoutesValidationErrors(t *testing.T) {
	h, _ := newTestHandler()
	router := testRouter(h, adminSession("school-1"), authz.TenantScope{TenantID: "school-1"})

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/students/", strings.NewReader(`{"class_name":"7A"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusBadRequest, res.Code)

	var envelope struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &envelope))
	assert.Equal(t, "required", envelope.Fields["Name"])
}
