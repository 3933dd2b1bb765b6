package handlers

import (
	"context"
	"net/http"

	"balcao/internal/models"
	"balcao/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// namedCRUD is the shape shared by categories and sales types: entities
// that only carry a name.
type namedCRUD[T any] interface {
	Create(ctx context.Context, name string) (T, error)
	GetByID(ctx context.Context, id uuid.UUID) (T, error)
	Update(ctx context.Context, id uuid.UUID, name string) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]T, error)
}

// NamedHandlers serves CRUD for a name-only catalog entity.
type NamedHandlers[T any] struct {
	service  namedCRUD[T]
	resource string
	listKey  string
}

func NewCategoryHandlers(service services.CategoryService) *NamedHandlers[*models.Category] {
	return &NamedHandlers[*models.Category]{service: service, resource: "Category", listKey: "categories"}
}

func NewSalesTypeHandlers(service services.SalesTypeService) *NamedHandlers[*models.SalesType] {
	return &NamedHandlers[*models.SalesType]{service: service, resource: "Sales type", listKey: "sales_types"}
}

// Register mounts the routes under path, e.g. "/categories".
func (h *NamedHandlers[T]) Register(g *echo.Group, path string) {
	g.GET(path, h.List)
	g.POST(path, h.Create)
	g.GET(path+"/:id", h.Get)
	g.PUT(path+"/:id", h.Update)
	g.DELETE(path+"/:id", h.Delete)
}

type nameRequest struct {
	Name string `json:"name"`
}

func (h *NamedHandlers[T]) Create(c echo.Context) error {
	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	entity, err := h.service.Create(c.Request().Context(), req.Name)
	if err != nil {
		return respondError(c, err, h.resource)
	}
	return c.JSON(http.StatusCreated, entity)
}

func (h *NamedHandlers[T]) Get(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, h.resource)
	}

	entity, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, h.resource)
	}
	return c.JSON(http.StatusOK, entity)
}

func (h *NamedHandlers[T]) Update(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, h.resource)
	}
	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}

	entity, err := h.service.Update(c.Request().Context(), id, req.Name)
	if err != nil {
		return respondError(c, err, h.resource)
	}
	return c.JSON(http.StatusOK, entity)
}

func (h *NamedHandlers[T]) Delete(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, h.resource)
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, h.resource)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NamedHandlers[T]) List(c echo.Context) error {
	entities, err := h.service.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, h.resource)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{h.listKey: entities})
}
