package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/royal-judge/backend/contest"
	"github.com/royal-judge/backend/contestsrvc"
	"github.com/royal-judge/backend/httpjson"
	"github.com/royal-judge/backend/user/auth"
)

type ContestHttpHandler struct {
	contestSrvc *contestsrvc.ContestSrvc
	logger      *slog.Logger
}

func NewContestHttpHandler(contestSrvc *contestsrvc.ContestSrvc) *ContestHttpHandler {
	return &ContestHttpHandler{
		contestSrvc: contestSrvc,
		logger:      slog.Default().With("module", "contesthttp"),
	}
}

// RegisterRoutes expects the JWT middleware to already be installed.
func (h *ContestHttpHandler) RegisterRoutes(r chi.Router) {
	r.Get("/contests", h.ListContests)
	r.Get("/contests/{contestID}", h.GetContest)
	r.Get("/contests/{contestID}/problems/{problemID}", h.GetProblem)
	r.Get("/contests/{contestID}/ranking", h.GetRanking)
	r.With(auth.RequireAdmin).Post("/contests", h.CreateContest)
	r.With(auth.RequireAdmin).Post("/contests/{contestID}/problems", h.AddProblem)
	r.With(auth.RequireAuth).Post("/contests/{contestID}/join", h.JoinContest)
}

func (h *ContestHttpHandler) ListContests(w http.ResponseWriter, r *http.Request) {
	res, err := h.contestSrvc.ListByStatus(r.Context())
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}
	httpjson.WriteSuccessJson(w, res)
}

func (h *ContestHttpHandler) GetContest(w http.ResponseWriter, r *http.Request) {
	c, err := h.contestSrvc.GetContest(r.Context(), chi.URLParam(r, "contestID"))
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}
	if c == nil {
		httpjson.HandleError(h.logger, w, contestsrvc.ErrContestNotFound())
		return
	}
	httpjson.WriteSuccessJson(w, c)
}

func (h *ContestHttpHandler) GetProblem(w http.ResponseWriter, r *http.Request) {
	p, err := h.contestSrvc.GetProblem(r.Context(),
		chi.URLParam(r, "contestID"),
		chi.URLParam(r, "problemID"))
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}
	if p == nil {
		httpjson.HandleError(h.logger, w, contestsrvc.ErrProblemNotFound())
		return
	}
	httpjson.WriteSuccessJson(w, p)
}

// GetRanking answers an unknown contest with an empty ranking.
func (h *ContestHttpHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	rows, err := h.contestSrvc.GetRanking(r.Context(), chi.URLParam(r, "contestID"))
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}
	httpjson.WriteSuccessJson(w, rows)
}

func (h *ContestHttpHandler) CreateContest(w http.ResponseWriter, r *http.Request) {
	type createContestRequest struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		StartTime   time.Time `json:"startTime"`
		EndTime     time.Time `json:"endTime"`
	}

	var request createContestRequest
	if err := httpjson.ReadJson(r, &request); err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}

	c, err := h.contestSrvc.CreateContest(r.Context(), contestsrvc.CreateContestParams{
		Title:       request.Title,
		Description: request.Description,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
	})
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}
	httpjson.WriteSuccessJson(w, c)
}

func (h *ContestHttpHandler) AddProblem(w http.ResponseWriter, r *http.Request) {
	type addProblemRequest struct {
		Title        string               `json:"title"`
		Statement    string               `json:"statement"`
		InputFormat  string               `json:"inputFormat"`
		OutputFormat string               `json:"outputFormat"`
		SampleCases  []contest.SampleCase `json:"sampleCases"`
		Tags         []string             `json:"tags"`
		Difficulty   contest.Difficulty   `json:"difficulty"`
		Points       int                  `json:"points"`
	}

	var request addProblemRequest
	if err := httpjson.ReadJson(r, &request); err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}

	p, err := h.contestSrvc.AddProblem(r.Context(), chi.URLParam(r, "contestID"), contestsrvc.AddProblemParams{
		Title:        request.Title,
		Statement:    request.Statement,
		InputFormat:  request.InputFormat,
		OutputFormat: request.OutputFormat,
		SampleCases:  request.SampleCases,
		Tags:         request.Tags,
		Difficulty:   request.Difficulty,
		Points:       request.Points,
	})
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}
	httpjson.WriteSuccessJson(w, p)
}

func (h *ContestHttpHandler) JoinContest(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	contestID := chi.URLParam(r, "contestID")

	if err := h.contestSrvc.JoinContest(r.Context(), contestID, claims.UserID); err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}

	c, err := h.contestSrvc.GetContest(r.Context(), contestID)
	if err != nil {
		httpjson.HandleError(h.logger, w, err)
		return
	}
	httpjson.WriteSuccessJson(w, c)
}
