package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	companydomain "github.com/hrplane/hrplane/internal/company/domain"
	"github.com/hrplane/hrplane/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeCompanyService struct {
	signupErr   error
	signupCalls int
}

func (f *fakeCompanyService) Signup(ctx context.Context, req companydomain.SignupRequest) (companydomain.SignupResponse, error) {
	f.signupCalls++
	if f.signupErr != nil {
		return companydomain.SignupResponse{}, f.signupErr
	}
	return companydomain.SignupResponse{
		Company: companydomain.Company{ID: snowflake.ID(100), Name: req.CompanyName},
		Admin:   companydomain.User{ID: snowflake.ID(200), Email: req.AdminEmail},
	}, nil
}

func (f *fakeCompanyService) Get(ctx context.Context) (companydomain.Company, error) {
	return companydomain.Company{}, companydomain.ErrCompanyNotFound
}

func (f *fakeCompanyService) Suspend(ctx context.Context) (companydomain.Company, error) {
	return companydomain.Company{}, nil
}

func (f *fakeCompanyService) Reactivate(ctx context.Context) (companydomain.Company, error) {
	return companydomain.Company{}, nil
}

func (f *fakeCompanyService) AddUser(ctx context.Context, req companydomain.AddUserRequest) (companydomain.User, error) {
	return companydomain.User{}, nil
}

func (f *fakeCompanyService) DeactivateUser(ctx context.Context, id snowflake.ID) (companydomain.User, error) {
	return companydomain.User{}, nil
}

func newTestServer(t *testing.T, companySvc companydomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := NewEngine(zaptest.NewLogger(t), nil)
	NewServer(ServerParams{
		Gin:        engine,
		Cfg:        config.Config{},
		CompanySvc: companySvc,
	})
	return engine
}

func TestSignupCreated(t *testing.T) {
	fake := &fakeCompanyService{}
	engine := newTestServer(t, fake)

	body, err := json.Marshal(companydomain.SignupRequest{
		CompanyName: "Acme",
		AdminName:   "Ada",
		AdminEmail:  "ada@acme.test",
		Password:    "supersecret",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, fake.signupCalls)
}

func TestSignupDuplicateCompanyConflict(t *testing.T) {
	fake := &fakeCompanyService{signupErr: companydomain.ErrDuplicateCompany}
	engine := newTestServer(t, fake)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/signup", bytes.NewBufferString(`{"company_name":"Acme"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "conflict", resp.Error.Type)
}

func TestScopedRouteRequiresCompanyHeader(t *testing.T) {
	engine := newTestServer(t, &fakeCompanyService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/company", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Error.Errors, 1)
	assert.Equal(t, "invalid_company", resp.Error.Errors[0].Code)
}

func TestScopedRouteRejectsMalformedCompanyHeader(t *testing.T) {
	engine := newTestServer(t, &fakeCompanyService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/company", nil)
	req.Header.Set(HeaderCompany, "not-a-number")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompanyNotFoundMapsTo404(t *testing.T) {
	engine := newTestServer(t, &fakeCompanyService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/company", nil)
	req.Header.Set(HeaderCompany, "123456789")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidIDParam(t *testing.T) {
	engine := newTestServer(t, &fakeCompanyService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/employees/abc", nil)
	req.Header.Set(HeaderCompany, "123456789")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	engine := newTestServer(t, &fakeCompanyService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
