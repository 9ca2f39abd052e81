package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/royal-judge/backend/user"
	"github.com/royal-judge/backend/user/auth"
)

type UserHttpHandler struct {
	userSrvc *user.UserSrvc
	JwtKey   []byte
	logger   *slog.Logger
}

func NewUserHttpHandler(userSrvc *user.UserSrvc, jwtKey []byte) *UserHttpHandler {
	return &UserHttpHandler{
		userSrvc: userSrvc,
		JwtKey:   jwtKey,
		logger:   slog.Default().With("module", "userhttp"),
	}
}

// RegisterRoutes expects the JWT middleware to already be installed.
func (h *UserHttpHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/signup", h.Signup)
	r.Post("/auth/verify", h.VerifyEmail)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.With(auth.RequireAuth).Get("/auth/me", h.WhoAmI)
	r.Get("/users/{userID}", h.GetUser)
}

func (h *UserHttpHandler) setAuthCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}
