package person

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fermata-app/fermata/internal/platform/middleware"
	requestutil "github.com/fermata-app/fermata/internal/platform/request"
	"github.com/fermata-app/fermata/internal/platform/respond"
	"github.com/fermata-app/fermata/internal/platform/sec"
	"github.com/fermata-app/fermata/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listPersons)
	router.Get("/{id}", handler.getPerson)

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createPerson)
		adminRoute.Patch("/{id}", handler.updatePerson)
		adminRoute.Delete("/{id}", handler.deletePerson)

		adminRoute.Post("/{id}/names", handler.addName)
		adminRoute.Delete("/{id}/names/{nameID}", handler.removeName)
	})
}

func (handler *Handler) listPersons(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query: request.URL.Query().Get("q"),
	}
	if country := request.URL.Query().Get("country"); country != "" {
		filter.Country = &country
	}
	if aliveRaw := request.URL.Query().Get("alive"); aliveRaw != "" {
		if alive, err := strconv.ParseBool(aliveRaw); err == nil {
			filter.Alive = &alive
		}
	}

	persons, total, err := handler.service.ListPersons(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, persons, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getPerson(writer http.ResponseWriter, request *http.Request) {
	personID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	person, err := handler.service.GetPerson(request.Context(), personID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, person)
}

func (handler *Handler) createPerson(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Person
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.CreatedBy = actorID

	if err := handler.service.CreatePerson(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updatePerson(writer http.ResponseWriter, request *http.Request) {
	personID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Person
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdatePerson(request.Context(), personID, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deletePerson(writer http.ResponseWriter, request *http.Request) {
	personID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeletePerson(request.Context(), personID, actorID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) addName(writer http.ResponseWriter, request *http.Request) {
	personID, err := requestutil.IntParam(request, "id")
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

	added, err := handler.service.AddName(request.Context(), personID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, added)
}

func (handler *Handler) removeName(writer http.ResponseWriter, request *http.Request) {
	personID, err := requestutil.IntParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	nameID, err := requestutil.IntParam(request, "nameID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveName(request.Context(), personID, nameID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
