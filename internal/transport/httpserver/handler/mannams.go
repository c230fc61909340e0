package handler

import (
	"net/http"
	"time"

	mannamdomain "moim-app-go/internal/domain/mannam"
	"moim-app-go/internal/transport/httpserver/middleware"
	apperrors "moim-app-go/pkg/errors"

	"github.com/go-chi/chi/v5"
)

type createMannamRequest struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=2000"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Duration    int     `json:"duration" validate:"min=0,max=525600"`
}

type updateMannamStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed cancelled"`
}

type submitResponseRequest struct {
	Status  string `json:"status" validate:"required,oneof=available unavailable maybe"`
	Comment string `json:"comment" validate:"max=500"`
}

type mannamResponse struct {
	ID          string     `json:"id"`
	MoimID      string     `json:"moim_id"`
	CreatorID   string     `json:"creator_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Duration    int        `json:"duration"`
	Status      string     `json:"status"`
	MannamURL   string     `json:"mannam_url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type responseRow struct {
	ID        string    `json:"id"`
	MannamID  string    `json:"mannam_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type responsesResponse struct {
	Responses []responseRow       `json:"responses"`
	Counts    mannamdomain.Counts `json:"counts"`
}

func (h *Handlers) ListMannams(w http.ResponseWriter, r *http.Request) {
	moimID, err := parseIDParam("moim_id", chi.URLParam(r, "moim_id"))
	if err != nil {
		h.writeAppError(w, "mannams.list", err)
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeAppError(w, "mannams.list", apperrors.ErrUnauthenticated)
		return
	}

	mannams, err := h.Mannams.ListMannams(r.Context(), user.ID, moimID)
	if err != nil {
		h.writeAppError(w, "mannams.list", err, "user_id", user.ID, "moim_id", moimID)
		return
	}

	response := make([]mannamResponse, 0, len(mannams))
	for i := range mannams {
		response = append(response, toMannamResponse(&mannams[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateMannam(w http.ResponseWriter, r *http.Request) {
	moimID, err := parseIDParam("moim_id", chi.URLParam(r, "moim_id"))
	if err != nil {
		h.writeAppError(w, "mannams.create", err)
		return
	}

	var req createMannamRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeAppError(w, "mannams.create", err)
		return
	}
	startDate, err := parseTimeParam("start_date", req.StartDate)
	if err != nil {
		h.writeAppError(w, "mannams.create", err)
		return
	}
	endDate, err := parseTimeParam("end_date", req.EndDate)
	if err != nil {
		h.writeAppError(w, "mannams.create", err)
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeAppError(w, "mannams.create", apperrors.ErrUnauthenticated)
		return
	}

	result, err := h.Mannams.CreateMannam(r.Context(), user.ID, mannamdomain.CreateInput{
		MoimID:      moimID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		Duration:    req.Duration,
	})
	if err != nil {
		h.writeAppError(w, "mannams.create", err, "user_id", user.ID, "moim_id", moimID)
		return
	}

	writeJSON(w, http.StatusCreated, toMannamResponse(result))
}

func (h *Handlers) UpdateMannamStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam("id", chi.URLParam(r, "id"))
	if err != nil {
		h.writeAppError(w, "mannams.update_status", err)
		return
	}

	var req updateMannamStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeAppError(w, "mannams.update_status", err)
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeAppError(w, "mannams.update_status", apperrors.ErrUnauthenticated)
		return
	}

	result, err := h.Mannams.UpdateMannamStatus(r.Context(), user.ID, id, req.Status)
	if err != nil {
		h.writeAppError(w, "mannams.update_status", err, "user_id", user.ID, "mannam_id", id, "status", req.Status)
		return
	}

	writeJSON(w, http.StatusOK, toMannamResponse(result))
}

func (h *Handlers) ListResponses(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam("id", chi.URLParam(r, "id"))
	if err != nil {
		h.writeAppError(w, "mannams.list_responses", err)
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeAppError(w, "mannams.list_responses", apperrors.ErrUnauthenticated)
		return
	}

	responses, err := h.Mannams.ListResponses(r.Context(), user.ID, id)
	if err != nil {
		h.writeAppError(w, "mannams.list_responses", err, "user_id", user.ID, "mannam_id", id)
		return
	}

	rows := make([]responseRow, 0, len(responses))
	for i := range responses {
		rows = append(rows, toResponseRow(&responses[i]))
	}
	writeJSON(w, http.StatusOK, responsesResponse{
		Responses: rows,
		Counts:    mannamdomain.Tally(id, responses),
	})
}

func (h *Handlers) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam("id", chi.URLParam(r, "id"))
	if err != nil {
		h.writeAppError(w, "mannams.submit_response", err)
		return
	}

	var req submitResponseRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeAppError(w, "mannams.submit_response", err)
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeAppError(w, "mannams.submit_response", apperrors.ErrUnauthenticated)
		return
	}

	result, err := h.Mannams.SubmitResponse(r.Context(), user.ID, id, req.Status, req.Comment)
	if err != nil {
		h.writeAppError(w, "mannams.submit_response", err, "user_id", user.ID, "mannam_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toResponseRow(result))
}

func toMannamResponse(mannam *mannamdomain.Mannam) mannamResponse {
	return mannamResponse{
		ID:          mannam.ID,
		MoimID:      mannam.MoimID,
		CreatorID:   mannam.CreatorID,
		Title:       mannam.Title,
		Description: mannam.Description,
		StartDate:   mannam.StartDate,
		EndDate:     mannam.EndDate,
		Duration:    mannam.Duration,
		Status:      mannam.Status,
		MannamURL:   mannam.URL,
		CreatedAt:   mannam.CreatedAt,
		UpdatedAt:   mannam.UpdatedAt,
	}
}

func toResponseRow(response *mannamdomain.Response) responseRow {
	return responseRow{
		ID:        response.ID,
		MannamID:  response.MannamID,
		UserID:    response.UserID,
		Status:    response.Status,
		Comment:   response.Comment,
		CreatedAt: response.CreatedAt,
		UpdatedAt: response.UpdatedAt,
	}
}
