package handler

import (
	"net/http"

	"codeclash/internal/api/middleware"
	"codeclash/internal/app/service"
	"codeclash/internal/common"

	"github.com/go-chi/chi/v5"
)

type ContestHandler struct {
	contestService *service.ContestService
}

func NewContestHandler(cs *service.ContestService) *ContestHandler {
	return &ContestHandler{contestService: cs}
}

func (h *ContestHandler) RegisterRoutes(r chi.Router, policy middleware.Policy) {
	r.Get("/contests", h.listContests) // ?teacher_id= filters by creator
	r.Get("/student/contest/{id}", h.getStudentContest)

	r.Group(func(teacher chi.Router) {
		teacher.Use(policy.Teacher...)
		teacher.Post("/contests", h.createContest)
		teacher.Get("/contests/{id}", h.getContest) // includes hidden test data
	})
}

func (h *ContestHandler) createContest(w http.ResponseWriter, r *http.Request) {
	var req service.CreateContestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !actingAs(w, r, req.TeacherID) {
		return
	}
	contest, err := h.contestService.CreateContest(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, contest)
}

func (h *ContestHandler) listContests(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contestService.ListContests(r.Context(), r.URL.Query().Get("teacher_id"))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contests)
}

func (h *ContestHandler) getContest(w http.ResponseWriter, r *http.Request) {
	detail, err := h.contestService.GetContest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	if userID, ok := middleware.GetUserIDFromContext(r.Context()); ok && userID != detail.Contest.CreatedBy {
		common.RespondWithError(w, http.StatusForbidden, "Not authorized: not the contest owner")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *ContestHandler) getStudentContest(w http.ResponseWriter, r *http.Request) {
	contest, err := h.contestService.GetStudentContest(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}
