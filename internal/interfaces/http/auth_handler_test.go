package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	apphttp "github.com/jhoicas/warehouse-api/internal/interfaces/http"
)

func TestAuth_RegistroLoginYPerfil(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", dto.SignUpRequest{
		Email: "Ana@Example.com", Password: "secreta-123", FullName: "Ana",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	session := decode[dto.SessionResponse](t, env)
	require.NotNil(t, session.User)
	assert.Equal(t, "ana@example.com", session.User.Email)
	assert.Equal(t, entity.RoleStaff, session.User.Role)

	status, env = s.do(t, http.MethodPost, "/api/v1/auth/signup", "", dto.SignUpRequest{
		Email: "ana@example.com", Password: "otra-clave-1",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, apphttp.CodeConflict, env.Details)

	status, env = s.do(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email: "ana@example.com", Password: "mala",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apphttp.CodeUnauthorized, env.Details)

	status, env = s.do(t, http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{
		Email: "ana@example.com", Password: "secreta-123",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	login := decode[dto.SessionResponse](t, env)
	require.NotEmpty(t, login.AccessToken)
	require.NotEmpty(t, login.RefreshToken)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, env = s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.Equal(t, http.StatusOK, status, env.Message)
	assert.NotEmpty(t, decode[dto.SessionResponse](t, env).AccessToken)

	// un access token no sirve para renovar
	status, _ = s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", dto.RefreshRequest{RefreshToken: login.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuth_SignupValidaCuerpo(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", dto.SignUpRequest{Email: "no-es-email", Password: "12345678"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apphttp.CodeValidation, env.Details)
}

func TestAuth_Me(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(t, http.MethodGet, "/api/v1/auth/me", entity.RoleManager, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	me := decode[dto.UserResponse](t, env)
	assert.Equal(t, "u-"+entity.RoleManager, me.ID)
	assert.Equal(t, entity.RoleManager, me.Role)
}

func TestRutaInexistente(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(t, http.MethodGet, "/nada", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apphttp.CodeNotFound, env.Details)
}
