package favorite

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/fermata-app/fermata/internal/platform/request"
	"github.com/fermata-app/fermata/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPieceRoutes mounts the piece-scoped favorite endpoints. The router
// is the /pieces subrouter shared with the piece handler.
func (handler *Handler) RegisterPieceRoutes(router chi.Router) {
	router.Put("/{id}/favorite", handler.addFavorite)
	router.Delete("/{id}/favorite", handler.removeFavorite)
	router.Get("/{id}/favorite/count", handler.countFavorites)
}

// RegisterMeRoutes mounts the user-scoped endpoints under /me.
func (handler *Handler) RegisterMeRoutes(router chi.Router) {
	router.Get("/favorites", handler.listMine)
}

func (handler *Handler) addFavorite(writer http.ResponseWriter, request *http.Request) {
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

	favorite, err := handler.service.Add(request.Context(), userID, pieceID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, favorite)
}

func (handler *Handler) removeFavorite(writer http.ResponseWriter, request *http.Request) {
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

	if err := handler.service.Remove(request.Context(), userID, pieceID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) countFavorites(writer http.ResponseWriter, request *http.Request) {
	pieceID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	total, err := handler.service.CountByPiece(request.Context(), pieceID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{"count": total})
}

func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	favorites, err := handler.service.ListByUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, favorites)
}
