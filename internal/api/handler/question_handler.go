package handler

import (
	"net/http"

	"codeclash/internal/api/middleware"
	"codeclash/internal/app/service"
	"codeclash/internal/common"

	"github.com/go-chi/chi/v5"
)

type QuestionHandler struct {
	questionService *service.QuestionService
}

func NewQuestionHandler(qs *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: qs}
}

func (h *QuestionHandler) RegisterRoutes(r chi.Router, policy middleware.Policy) {
	r.Get("/student/question/{id}", h.getStudentQuestion)

	r.Group(func(teacher chi.Router) {
		teacher.Use(policy.Teacher...)
		teacher.Post("/questions", h.createQuestion)
		teacher.Delete("/questions/{id}", h.deleteQuestion)
		teacher.Get("/questions/{id}/testcases", h.listTestcases)
		teacher.Post("/testcases", h.addTestcase)
	})
}

func (h *QuestionHandler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req service.CreateQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := h.questionService.CreateQuestion(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, q)
}

func (h *QuestionHandler) getStudentQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.questionService.GetStudentQuestion(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, q)
}

func (h *QuestionHandler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.questionService.DeleteQuestion(r.Context(), chi.URLParam(r, "id")); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Question deleted successfully"})
}

func (h *QuestionHandler) addTestcase(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTestcaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	tc, err := h.questionService.AddTestcase(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, tc)
}

func (h *QuestionHandler) listTestcases(w http.ResponseWriter, r *http.Request) {
	testcases, err := h.questionService.ListTestcases(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, testcases)
}
