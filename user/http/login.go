package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/royal-judge/backend/httpjson"
	"github.com/royal-judge/backend/user"
	"github.com/royal-judge/backend/user/auth"
)

func (h *UserHttpHandler) Signup(w http.ResponseWriter, r *http.Request) {
	type signupRequest struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var request signupRequest
	if err := httpjson.ReadJson(r, &request); err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}

	msg, err := h.userSrvc.Signup(r.Context(), user.SignupParams{
		Username: request.Username,
		Email:    request.Email,
		Password: request.Password,
	})
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, map[string]any{"success": true, "message": msg})
}

func (h *UserHttpHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	type verifyRequest struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}

	var request verifyRequest
	if err := httpjson.ReadJson(r, &request); err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}

	u, err := h.userSrvc.VerifyEmail(r.Context(), request.Email, request.Code)
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}

	h.respondWithToken(w, r, u)
}

func (h *UserHttpHandler) Login(w http.ResponseWriter, r *http.Request) {
	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var request loginRequest
	if err := httpjson.ReadJson(r, &request); err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}

	u, err := h.userSrvc.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}

	h.respondWithToken(w, r, u)
}

func (h *UserHttpHandler) respondWithToken(w http.ResponseWriter, r *http.Request, u *user.User) {
	token, err := auth.GenerateJWT(u.ID, u.Username, u.Email, string(u.Role), h.JwtKey)
	if err != nil {
		err = fmt.Errorf("failed to generate JWT: %w", err)
		httpjson.HandleError(h.logger, w, err)
		return
	}

	h.setAuthCookie(w, r, token)
	httpjson.WriteSuccessJson(w, AuthResponse{User: mapUser(u), Token: token})
}

func (h *UserHttpHandler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())

	u, err := h.userSrvc.GetUser(r.Context(), claims.UserID)
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}
	if u == nil {
		httpjson.HandleError(h.logger, w, user.ErrUserNotFound())
		return
	}

	httpjson.WriteSuccessJson(w, mapUser(u))
}

func (h *UserHttpHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.userSrvc.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}
	if u == nil {
		httpjson.HandleError(h.logger, w, user.ErrUserNotFound())
		return
	}

	public := mapUser(u)
	public.Email = ""
	httpjson.WriteSuccessJson(w, public)
}
