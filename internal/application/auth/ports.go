package auth

import "context"

// Session tokens emitidos por el proveedor de identidad.
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // segundos
}

// PasswordChange datos para cambiar la contraseña del usuario autenticado.
type PasswordChange struct {
	UserID      string
	Email       string
	AccessToken string
	Current     string
	New         string
}

// IdentityProvider puerto hacia el directorio de identidad (BaaS o local).
// Credenciales inválidas deben devolver domain.ErrUnauthorized; email ya registrado, domain.ErrEmailAlreadyExists.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	ChangePassword(ctx context.Context, in PasswordChange) error
}
