package piece

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fermata-app/fermata/internal/platform/middleware"
	requestutil "github.com/fermata-app/fermata/internal/platform/request"
	"github.com/fermata-app/fermata/internal/platform/respond"
	"github.com/fermata-app/fermata/internal/platform/sec"
	"github.com/fermata-app/fermata/pkg/convert"
	"github.com/fermata-app/fermata/pkg/pagination"
	"github.com/fermata-app/fermata/pkg/query"
	"github.com/fermata-app/fermata/pkg/slice"
)

const (
	defaultHighlightLimit = 10
	maxHighlightLimit     = 50
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listPieces)
	router.Get("/recent", handler.listRecent)
	router.Get("/popular", handler.listPopular)
	router.Get("/{id}", handler.getPieceDetail)
	router.Get("/{id}/children", handler.listChildren)

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createPiece)
		adminRoute.Patch("/{id}", handler.updatePiece)
		adminRoute.Delete("/{id}", handler.deletePiece)

		adminRoute.Post("/{id}/names", handler.addName)
		adminRoute.Delete("/{id}/names/{nameID}", handler.removeName)

		adminRoute.Put("/{id}/tags/{tagID}", handler.addTag)
		adminRoute.Delete("/{id}/tags/{tagID}", handler.removeTag)
	})
}

func (handler *Handler) listPieces(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get("q"),
	}
	if composerID := convert.ToInt(request.URL.Query().Get("composer")); composerID > 0 {
		filter.ComposerID = &composerID
	}

	// ?tags=1,4,7 narrows results to pieces carrying any of the listed tags.
	tagIDs := query.IntSlice(query.StringSlice(request.URL.Query().Get("tags")))
	filter.TagIDs = slice.Filter(tagIDs, func(id int) bool { return id > 0 })

	pieces, total, err := handler.service.ListPieces(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, pieces, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// highlightLimit parses the ?limit of the recent/popular shelves.
func highlightLimit(request *http.Request) int {
	limit := convert.ToIntD(request.URL.Query().Get("limit"), defaultHighlightLimit)
	if limit <= 0 {
		limit = defaultHighlightLimit
	}
	if limit > maxHighlightLimit {
		limit = maxHighlightLimit
	}
	return limit
}

func (handler *Handler) listRecent(writer http.ResponseWriter, request *http.Request) {
	pieces, err := handler.service.ListRecent(request.Context(), highlightLimit(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, pieces)
}

func (handler *Handler) listPopular(writer http.ResponseWriter, request *http.Request) {
	pieces, err := handler.service.ListPopular(request.Context(), highlightLimit(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, pieces)
}

func (handler *Handler) getPieceDetail(writer http.ResponseWriter, request *http.Request) {
	pieceID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.GetPieceDetail(request.Context(), pieceID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

func (handler *Handler) listChildren(writer http.ResponseWriter, request *http.Request) {
	pieceID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	children, err := handler.service.ListChildren(request.Context(), pieceID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, children)
}

func (handler *Handler) createPiece(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Piece
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.CreatedBy = actorID

	if err := handler.service.CreatePiece(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updatePiece(writer http.ResponseWriter, request *http.Request) {
	pieceID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Piece
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdatePiece(request.Context(), pieceID, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deletePiece(writer http.ResponseWriter, request *http.Request) {
	pieceID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeletePiece(request.Context(), pieceID, actorID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) addName(writer http.ResponseWriter, request *http.Request) {
	pieceID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	added, err := handler.service.AddName(request.Context(), pieceID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, added)
}

func (handler *Handler) removeName(writer http.ResponseWriter, request *http.Request) {
	pieceID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	nameID, err := requestutil.IntParam(request, "nameID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveName(request.Context(), pieceID, nameID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) addTag(writer http.ResponseWriter, request *http.Request) {
	pieceID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tagID, err := requestutil.IntParam(request, "tagID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AddTag(request.Context(), pieceID, tagID, actorID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) removeTag(writer http.ResponseWriter, request *http.Request) {
	pieceID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	tagID, err := requestutil.IntParam(request, "tagID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveTag(request.Context(), pieceID, tagID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
