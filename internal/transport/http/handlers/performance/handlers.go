package performancehandler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/audit"
	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/performance"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type ReviewService interface {
	ListReviews(ctx context.Context, creds auth.Credentials, employeeID int64) ([]performance.Review, error)
	CreateReview(ctx context.Context, creds auth.Credentials, reviewer *auth.Principal, employeeID int64, in performance.ReviewInput) (performance.Review, error)
	UpdateReview(ctx context.Context, creds auth.Credentials, reviewer *auth.Principal, employeeID, reviewID int64, in performance.ReviewInput) (performance.Review, error)
}

type Handler struct {
	Service ReviewService
	Audit   audit.Recorder
	Access  middleware.AccessObserver
}

func NewHandler(service ReviewService, recorder audit.Recorder, access middleware.AccessObserver) *Handler {
	return &Handler{Service: service, Audit: recorder, Access: access}
}

type reviewList struct {
	Reviews []performance.Review `json:"reviews"`
	Summary performance.Summary  `json:"summary"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/employees/{id}/performance", h.handleListReviews)
	r.With(middleware.RequireCapability(auth.CapCreatePerformanceReview, h.Access)).Post("/employees/{id}/performance", h.handleCreateReview)
	r.With(middleware.RequireCapability(auth.CapUpdatePerformanceReview, h.Access)).Put("/employees/{id}/performance/{reviewID}", h.handleUpdateReview)
}

func (h *Handler) handleListReviews(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !shared.Authorize(w, r, h.Access, p, auth.CapViewPerformance, id, "you are not authorized to view performance reviews for this employee") {
		return
	}

	reviews, err := h.Service.ListReviews(r.Context(), creds, id)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}
	api.Success(w, reviewList{Reviews: reviews, Summary: performance.Summarize(reviews)}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	payload, ok := decodeReview(w, r)
	if !ok {
		return
	}

	review, err := h.Service.CreateReview(r.Context(), creds, p, id, payload)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}

	shared.RecordAudit(r, h.Audit, p, audit.ActionReviewCreate, audit.EntityReview, strconv.FormatInt(review.ID, 10), nil, review)
	api.Created(w, review, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	p, creds, ok := shared.Session(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	reviewID, ok := pathID(w, r, "reviewID")
	if !ok {
		return
	}
	payload, ok := decodeReview(w, r)
	if !ok {
		return
	}

	review, err := h.Service.UpdateReview(r.Context(), creds, p, id, reviewID, payload)
	if err != nil {
		shared.RenderError(w, r, err)
		return
	}

	shared.RecordAudit(r, h.Audit, p, audit.ActionReviewUpdate, audit.EntityReview, strconv.FormatInt(reviewID, 10), nil, review)
	api.Success(w, review, middleware.GetRequestID(r.Context()))
}

func decodeReview(w http.ResponseWriter, r *http.Request) (performance.ReviewInput, bool) {
	requestID := middleware.GetRequestID(r.Context())
	var payload performance.ReviewInput
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return payload, false
	}
	payload.Period = strings.TrimSpace(payload.Period)
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return payload, false
	}
	return payload, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, ok := shared.PathID(r, name)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_id", name+" must be a positive integer", middleware.GetRequestID(r.Context()))
	}
	return id, ok
}
