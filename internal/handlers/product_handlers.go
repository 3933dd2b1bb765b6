package handlers

import (
	"net/http"
	"strconv"

	"balcao/internal/common"
	"balcao/internal/models"
	"balcao/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// ProductHandlers serves the catalog: products, their stock and their
// per-sales-type prices.
type ProductHandlers struct {
	productService services.ProductService
	priceService   services.ProductPriceService
}

func NewProductHandlers(productService services.ProductService, priceService services.ProductPriceService) *ProductHandlers {
	return &ProductHandlers{
		productService: productService,
		priceService:   priceService,
	}
}

func (h *ProductHandlers) Register(g *echo.Group) {
	g.GET("/products", h.ListProducts)
	g.POST("/products", h.CreateProduct)
	g.GET("/products/search", h.SearchProducts)
	g.GET("/products/:id", h.GetProduct)
	g.PUT("/products/:id", h.UpdateProduct)
	g.DELETE("/products/:id", h.DeleteProduct)
	g.PUT("/products/:id/stock", h.SetStock)
	g.GET("/products/:id/prices", h.ListPrices)
	g.PUT("/products/:id/prices/:sales_type_id", h.UpsertPrice)
	g.DELETE("/products/:id/prices/:sales_type_id", h.DeletePrice)
}

type productRequest struct {
	Name       string          `json:"name"`
	CategoryID *string         `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
}

func (r *productRequest) input() (services.ProductInput, error) {
	categoryID, err := common.ValidateOptionalUUID(r.CategoryID, "category_id")
	if err != nil {
		return services.ProductInput{}, err
	}
	return services.ProductInput{
		Name:       r.Name,
		CategoryID: categoryID,
		Price:      r.Price,
		Stock:      r.Stock,
	}, nil
}

// CreateProduct handles POST /products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	in, err := req.input()
	if err != nil {
		return respondError(c, err, "Product")
	}

	product, err := h.productService.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err, "Product")
	}
	return c.JSON(http.StatusCreated, product)
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Product")
	}

	product, err := h.productService.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Product")
	}
	return c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Product")
	}
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	in, err := req.input()
	if err != nil {
		return respondError(c, err, "Product")
	}

	product, err := h.productService.Update(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err, "Product")
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Product")
	}
	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "Product")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListProducts handles GET /products?q=&category_id=&in_stock=&limit=&offset=
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	limit, offset, err := pagination(c)
	if err != nil {
		return respondError(c, err, "Product")
	}

	filter := &models.ProductSearchFilter{
		Query:  c.QueryParam("q"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		if filter.CategoryID, err = common.ValidateOptionalUUID(&raw, "category_id"); err != nil {
			return respondError(c, err, "Product")
		}
	}
	if raw := c.QueryParam("in_stock"); raw != "" {
		if filter.InStock, err = strconv.ParseBool(raw); err != nil {
			return common.SendValidationError(c, "in_stock", "must be a boolean")
		}
	}

	products, err := h.productService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Product")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}

// SearchProducts handles GET /products/search?q=
func (h *ProductHandlers) SearchProducts(c echo.Context) error {
	limit, _, err := pagination(c)
	if err != nil {
		return respondError(c, err, "Product")
	}

	products, err := h.productService.Search(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return respondError(c, err, "Product")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"products": products})
}

// SetStock handles PUT /products/:id/stock
func (h *ProductHandlers) SetStock(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Product")
	}
	var req struct {
		Stock *int `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.Stock == nil {
		return common.SendValidationError(c, "stock", "is required")
	}

	product, err := h.productService.SetStock(c.Request().Context(), id, *req.Stock)
	if err != nil {
		return respondError(c, err, "Product")
	}
	return c.JSON(http.StatusOK, product)
}

// ListPrices handles GET /products/:id/prices
func (h *ProductHandlers) ListPrices(c echo.Context) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Product")
	}

	prices, err := h.priceService.ListByProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Product")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"product_prices": prices})
}

// UpsertPrice handles PUT /products/:id/prices/:sales_type_id
func (h *ProductHandlers) UpsertPrice(c echo.Context) error {
	productID, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Product")
	}
	salesTypeID, err := paramUUID(c, "sales_type_id")
	if err != nil {
		return respondError(c, err, "Sales type")
	}
	var req struct {
		Price *decimal.Decimal `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.Price == nil {
		return common.SendValidationError(c, "price", "is required")
	}

	price, err := h.priceService.Upsert(c.Request().Context(), productID, salesTypeID, *req.Price)
	if err != nil {
		return respondError(c, err, "Product")
	}
	return c.JSON(http.StatusOK, price)
}

// DeletePrice handles DELETE /products/:id/prices/:sales_type_id
func (h *ProductHandlers) DeletePrice(c echo.Context) error {
	productID, err := paramUUID(c, "id")
	if err != nil {
		return respondError(c, err, "Product price")
	}
	salesTypeID, err := paramUUID(c, "sales_type_id")
	if err != nil {
		return respondError(c, err, "Product price")
	}

	if err := h.priceService.Delete(c.Request().Context(), productID, salesTypeID); err != nil {
		return respondError(c, err, "Product price")
	}
	return c.NoContent(http.StatusNoContent)
}
