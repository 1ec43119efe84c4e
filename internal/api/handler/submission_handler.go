package handler

import (
	"errors"
	"net/http"

	"codeclash/internal/api/middleware"
	"codeclash/internal/app/service"
	"codeclash/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(ss *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: ss}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router, policy middleware.Policy) {
	r.Group(func(student chi.Router) {
		student.Use(policy.Authenticated...)
		student.Post("/submissions", h.submit)
		student.Get("/submissions", h.listSubmissions) // ?student_id=&contest_id=
	})
}

// savedSubmissionFailure is the body when the judge answered but the record
// could not be written.
type savedSubmissionFailure struct {
	Error       string `json:"error"`
	JudgeResult any    `json:"judge0_result"`
	Verdict     string `json:"verdict"`
}

func (h *SubmissionHandler) submit(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !actingAs(w, r, req.StudentID) {
		return
	}

	res, err := h.submissionService.Submit(r.Context(), req)
	if err != nil {
		if res != nil && errors.Is(err, common.ErrStorage) {
			common.RespondWithJSON(w, common.HTTPStatusFromError(err), savedSubmissionFailure{
				Error:       common.ErrorBody(err).Error,
				JudgeResult: res.JudgeResult,
				Verdict:     res.Verdict,
			})
			return
		}
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, res)
}

func (h *SubmissionHandler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	studentID := r.URL.Query().Get("student_id")
	if !actingAs(w, r, studentID) {
		return
	}
	subs, err := h.submissionService.ListStudentSubmissions(r.Context(), studentID, r.URL.Query().Get("contest_id"))
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}
