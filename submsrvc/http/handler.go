package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/royal-judge/backend/httpjson"
	"github.com/royal-judge/backend/planglist"
	"github.com/royal-judge/backend/subm"
	"github.com/royal-judge/backend/submsrvc"
	"github.com/royal-judge/backend/user/auth"
)

type SubmHttpHandler struct {
	submSrvc *submsrvc.SubmSrvc
	logger   *slog.Logger

	keepAlive time.Duration
}

func NewSubmHttpHandler(submSrvc *submsrvc.SubmSrvc) *SubmHttpHandler {
	return &SubmHttpHandler{
		submSrvc:  submSrvc,
		logger:    slog.Default().With("module", "submhttp"),
		keepAlive: 15 * time.Second,
	}
}

// RegisterRoutes expects the JWT middleware to already be installed.
func (h *SubmHttpHandler) RegisterRoutes(r chi.Router) {
	r.With(auth.RequireAuth).Post("/submissions", h.PostSubm)
	r.Get("/submissions/{submID}", h.GetSubm)
	r.Get("/submissions/{submID}/events", h.StreamSubmUpdates)
	r.Get("/users/{userID}/submissions", h.ListUserSubms)
	r.Get("/languages", h.ListLanguages)
}

func (h *SubmHttpHandler) PostSubm(w http.ResponseWriter, r *http.Request) {
	type submitRequest struct {
		ProblemID string `json:"problemId"`
		Language  string `json:"language"`
		Code      string `json:"code"`
	}

	var request submitRequest
	if err := httpjson.ReadJson(r, &request); err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	s, err := h.submSrvc.Submit.Handle(r.Context(), submsrvc.SubmitParams{
		UserID:    claims.UserID,
		ProblemID: request.ProblemID,
		Language:  request.Language,
		Code:      request.Code,
	})
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}

	httpjson.WriteSuccessJson(w, s)
}

func (h *SubmHttpHandler) GetSubm(w http.ResponseWriter, r *http.Request) {
	s, err := h.submSrvc.Get.Handle(r.Context(), chi.URLParam(r, "submID"))
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}
	if s == nil {
		httpjson.HandleError(h.logger, w, subm.ErrSubmNotFound())
		return
	}
	httpjson.WriteSuccessJson(w, s)
}

func (h *SubmHttpHandler) ListUserSubms(w http.ResponseWriter, r *http.Request) {
	list, err := h.submSrvc.ListUser.Handle(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}
	httpjson.WriteSuccessJson(w, list)
}

func (h *SubmHttpHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	httpjson.WriteSuccessJson(w, planglist.ListProgrammingLanguages())
}
