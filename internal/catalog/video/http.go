package video

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fermata-app/fermata/internal/platform/apperr"
	"github.com/fermata-app/fermata/internal/platform/middleware"
	requestutil "github.com/fermata-app/fermata/internal/platform/request"
	"github.com/fermata-app/fermata/internal/platform/respond"
	"github.com/fermata-app/fermata/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPieceRoutes mounts the piece-scoped video endpoints. The router is
// the /pieces subrouter shared with the piece handler.
func (handler *Handler) RegisterPieceRoutes(router chi.Router) {
	router.Get("/{id}/videos", handler.listByPiece)
	router.Post("/{id}/videos", handler.submitVideo)
}

// RegisterRoutes mounts the moderation endpoints under /videos.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Get("/pending", handler.listPending)
		adminRoute.Post("/{id}/approve", handler.approveVideo)
		adminRoute.Post("/{id}/reject", handler.rejectVideo)
		adminRoute.Delete("/{id}", handler.deleteVideo)
	})
}

func (handler *Handler) listByPiece(writer http.ResponseWriter, request *http.Request) {
	pieceID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	includeUnapproved := false
	if raw := request.URL.Query().Get("all"); raw != "" {
		all, _ := strconv.ParseBool(raw)
		if all {
			// The unfiltered listing exposes pending and rejected
			// submissions, so it is restricted to admins.
			claims := requestutil.Claims(request)
			if claims == nil || !sec.UserRole(claims.Role).AtLeast(sec.RoleAdmin) {
				respond.Error(writer, request, apperr.Forbidden("Admin access required"))
				return
			}
			includeUnapproved = true
		}
	}

	videos, err := handler.service.ListByPiece(request.Context(), pieceID, includeUnapproved)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, videos)
}

func (handler *Handler) submitVideo(writer http.ResponseWriter, request *http.Request) {
	pieceID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		URL string `json:"url"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video := &Video{
		PieceID:   pieceID,
		URL:       input.URL,
		CreatedBy: userID,
	}

	if err := handler.service.Submit(request.Context(), video); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, video)
}

func (handler *Handler) listPending(writer http.ResponseWriter, request *http.Request) {
	videos, err := handler.service.ListPending(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, videos)
}

func (handler *Handler) approveVideo(writer http.ResponseWriter, request *http.Request) {
	handler.moderate(writer, request, handler.service.Approve)
}

func (handler *Handler) rejectVideo(writer http.ResponseWriter, request *http.Request) {
	handler.moderate(writer, request, handler.service.Reject)
}

// moderate runs one moderation decision and returns the refreshed video.
func (handler *Handler) moderate(writer http.ResponseWriter, request *http.Request, decide func(ctx context.Context, id, adminID int) error) {
	videoID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	adminID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := decide(request.Context(), videoID, adminID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.service.GetVideo(request.Context(), videoID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, video)
}

func (handler *Handler) deleteVideo(writer http.ResponseWriter, request *http.Request) {
	videoID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteVideo(request.Context(), videoID, actorID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
