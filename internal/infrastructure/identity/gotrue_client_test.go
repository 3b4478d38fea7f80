package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/domain"
)

func newGoTrueServer(t *testing.T, handler http.HandlerFunc) *GoTrueClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGoTrueClient(srv.URL+"/", "anon-key")
}

func TestGoTrue_SignIn(t *testing.T) {
	c := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var body credentialsBody
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body.Email)

		_, _ = w.Write([]byte(`{"access_token":"at","refresh_token":"rt","expires_in":3600,"user":{"id":"u-1","email":"ana@example.com"}}`))
	})

	s, err := c.SignIn(context.Background(), "ana@example.com", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, "u-1", s.UserID)
	assert.Equal(t, "at", s.AccessToken)
	assert.Equal(t, "rt", s.RefreshToken)
	assert.Equal(t, 3600, s.ExpiresIn)
}

func TestGoTrue_SignIn_CredencialesInvalidas(t *testing.T) {
	c := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := c.SignIn(context.Background(), "ana@example.com", "mala")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestGoTrue_SignUp_UsuarioSinSesion(t *testing.T) {
	c := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"u-2","email":"leo@example.com"}`))
	})

	s, err := c.SignUp(context.Background(), "leo@example.com", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, "u-2", s.UserID)
	assert.Empty(t, s.AccessToken)
}

func TestGoTrue_SignUp_Duplicado(t *testing.T) {
	c := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
	})

	_, err := c.SignUp(context.Background(), "leo@example.com", "secreto123")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestGoTrue_Refresh(t *testing.T) {
	c := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "rt-old", body["refresh_token"])
		_, _ = w.Write([]byte(`{"access_token":"at2","refresh_token":"rt2","expires_in":3600,"user":{"id":"u-1"}}`))
	})

	s, err := c.Refresh(context.Background(), "rt-old")
	require.NoError(t, err)
	assert.Equal(t, "at2", s.AccessToken)
}

func TestGoTrue_SignOut_EnviaBearer(t *testing.T) {
	c := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.SignOut(context.Background(), "at"))
}

func TestGoTrue_ChangePassword(t *testing.T) {
	var updated bool
	c := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/token":
			_, _ = w.Write([]byte(`{"access_token":"at","user":{"id":"u-1"}}`))
		case "/auth/v1/user":
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
			updated = true
			_, _ = w.Write([]byte(`{"id":"u-1"}`))
		default:
			t.Errorf("ruta inesperada %s", r.URL.Path)
		}
	})

	err := c.ChangePassword(context.Background(), auth.PasswordChange{
		UserID: "u-1", Email: "ana@example.com", AccessToken: "at", Current: "vieja1234", New: "nueva1234",
	})
	require.NoError(t, err)
	assert.True(t, updated)
}

func TestGoTrue_ErrorServidor(t *testing.T) {
	c := newGoTrueServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.SignIn(context.Background(), "ana@example.com", "x")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
