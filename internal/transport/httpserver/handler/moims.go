package handler

import (
	"net/http"
	"time"

	moimdomain "moim-app-go/internal/domain/moim"
	"moim-app-go/internal/transport/httpserver/middleware"
	apperrors "moim-app-go/pkg/errors"

	"github.com/go-chi/chi/v5"
)

type createMoimRequest struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

type joinMoimRequest struct {
	InviteCode string `json:"invite_code" validate:"required"`
}

type moimResponse struct {
	ID               string                `json:"id"`
	Title            string                `json:"title"`
	Description      *string               `json:"description"`
	CreatorID        string                `json:"creator_id"`
	InviteCode       string                `json:"invite_code"`
	MoimURL          string                `json:"moim_url"`
	ParticipantCount int64                 `json:"participant_count"`
	Participants     []participantResponse `json:"participants,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

type participantResponse struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func (h *Handlers) ListMoims(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeAppError(w, "moims.list", apperrors.ErrUnauthenticated)
		return
	}

	moims, err := h.Moims.ListMoims(r.Context(), user.ID)
	if err != nil {
		h.writeAppError(w, "moims.list", err, "user_id", user.ID)
		return
	}

	response := make([]moimResponse, 0, len(moims))
	for i := range moims {
		response = append(response, toMoimResponse(&moims[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateMoim(w http.ResponseWriter, r *http.Request) {
	var req createMoimRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeAppError(w, "moims.create", err)
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeAppError(w, "moims.create", apperrors.ErrUnauthenticated)
		return
	}

	result, err := h.Moims.CreateMoim(r.Context(), user.ID, req.Title, req.Description)
	if err != nil {
		h.writeAppError(w, "moims.create", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusCreated, toMoimResponse(result))
}

func (h *Handlers) JoinMoim(w http.ResponseWriter, r *http.Request) {
	var req joinMoimRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeAppError(w, "moims.join", err)
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.writeAppError(w, "moims.join", apperrors.ErrUnauthenticated)
		return
	}

	result, err := h.Moims.JoinMoimByInviteCode(r.Context(), user.ID, req.InviteCode)
	if err != nil {
		h.writeAppError(w, "moims.join", err, "user_id", user.ID, "invite_code", req.InviteCode)
		return
	}

	writeJSON(w, http.StatusOK, toMoimResponse(result))
}

func (h *Handlers) GetMoimByInviteCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	result, err := h.Moims.GetMoimByInviteCode(r.Context(), code)
	if err != nil {
		h.writeAppError(w, "moims.get_by_invite_code", err, "invite_code", code)
		return
	}

	writeJSON(w, http.StatusOK, toMoimResponse(result))
}

func toMoimResponse(moim *moimdomain.Moim) moimResponse {
	response := moimResponse{
		ID:               moim.ID,
		Title:            moim.Title,
		Description:      moim.Description,
		CreatorID:        moim.CreatorID,
		InviteCode:       moim.InviteCode,
		MoimURL:          moim.URL,
		ParticipantCount: moim.ParticipantCount,
		CreatedAt:        moim.CreatedAt,
		UpdatedAt:        moim.UpdatedAt,
	}
	if len(moim.Participants) > 0 {
		response.Participants = make([]participantResponse, 0, len(moim.Participants))
		for _, p := range moim.Participants {
			response.Participants = append(response.Participants, participantResponse{
				UserID:   p.UserID,
				Role:     p.Role,
				JoinedAt: p.JoinedAt,
			})
		}
	}
	return response
}
