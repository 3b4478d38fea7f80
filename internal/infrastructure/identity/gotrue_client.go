package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/domain"
)

var _ auth.IdentityProvider = (*GoTrueClient)(nil)

// GoTrueClient implementa IdentityProvider contra la API REST de auth del BaaS (/auth/v1).
type GoTrueClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGoTrueClient construye el cliente. baseURL es la URL del proyecto, sin /auth/v1.
func NewGoTrueClient(baseURL, apiKey string) *GoTrueClient {
	return &GoTrueClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
	// signup sin confirmación de email devuelve el usuario en la raíz
	ID    string `json:"id"`
	Email string `json:"email"`
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error_code"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return "sin detalle"
}

func (c *GoTrueClient) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", credentialsBody{email, password}, &out); err != nil {
		return nil, err
	}
	return out.session(), nil
}

func (c *GoTrueClient) SignIn(ctx context.Context, email, password string) (*auth.Session, error) {
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", credentialsBody{email, password}, &out); err != nil {
		return nil, err
	}
	return out.session(), nil
}

func (c *GoTrueClient) Refresh(ctx context.Context, refreshToken string) (*auth.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var out tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "", body, &out); err != nil {
		return nil, err
	}
	return out.session(), nil
}

func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil, nil)
}

// ChangePassword verifica la contraseña actual con un login y luego actualiza el usuario.
func (c *GoTrueClient) ChangePassword(ctx context.Context, in auth.PasswordChange) error {
	if _, err := c.SignIn(ctx, in.Email, in.Current); err != nil {
		return err
	}
	body := map[string]string{"password": in.New}
	return c.do(ctx, http.MethodPut, "/auth/v1/user", in.AccessToken, body, nil)
}

func (t tokenResponse) session() *auth.Session {
	s := &auth.Session{
		UserID:       t.User.ID,
		Email:        t.User.Email,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    t.ExpiresIn,
	}
	if s.UserID == "" {
		s.UserID, s.Email = t.ID, t.Email
	}
	return s
}

// do ejecuta la llamada y traduce los códigos HTTP a errores de dominio.
func (c *GoTrueClient) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("gotrue: serializar body: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("gotrue: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Upstream("gotrue "+path, ctx.Err())
		}
		return domain.Upstream("gotrue "+path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.Upstream("gotrue "+path, err)
	}

	if resp.StatusCode >= 300 {
		var e errorResponse
		_ = json.Unmarshal(raw, &e)
		return mapStatus(resp.StatusCode, e)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.Upstream("gotrue "+path, fmt.Errorf("respuesta inválida: %w", err))
	}
	return nil
}

func mapStatus(status int, e errorResponse) error {
	msg := e.text()
	switch {
	case e.ErrorCode == "user_already_exists" || status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "already"):
		return domain.ErrEmailAlreadyExists
	case status == http.StatusBadRequest && (e.Error == "invalid_grant" || e.ErrorCode == "invalid_credentials"):
		return fmt.Errorf("%s: %w", msg, domain.ErrUnauthorized)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%s: %w", msg, domain.ErrUnauthorized)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return domain.Invalid("", msg)
	}
	return domain.Upstream("gotrue", fmt.Errorf("HTTP %d: %s", status, msg))
}
