package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/api/middleware"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/errors"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/models"
	service "github.com/cameronfredericks24/beatbuddy-sales-pro/internal/services"
	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/utils/response"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

type PaymentTermOption struct {
	Value models.PaymentTerms `json:"value"`
	Label string              `json:"label"`
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// SearchProducts godoc
//	@Summary		Search the catalog
//	@Description	Lists catalog products in catalog order. A non-empty q keeps products whose name or category contains it, ignoring case.
//	@Tags			Catalog
//	@Produce		json
//	@Param			q	query		string						false	"Search text"
//	@Success		200	{object}	models.ProductListResponse	"Matching products"
//	@Failure		500	{object}	response.ErrorResponse		"Internal server error"
//	@Router			/catalog/products [get]
func (h *CatalogHandler) SearchProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		query := r.URL.Query().Get("q")

		products, err := h.catalogService.Search(r.Context(), query)
		if err != nil {
			logger.Error("Failed to search the catalog", slog.String("query", query), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Debug("Catalog searched", slog.String("query", query), slog.Int("count", products.Total))
		response.Success(w, http.StatusOK, products)
	}
}

// GetProduct godoc
//	@Summary		Get a product by ID
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path		string					true	"Product ID"
//	@Success		200	{object}	models.Product			"The product"
//	@Failure		400	{object}	response.ErrorResponse	"Missing product id"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/catalog/products/{id} [get]
func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id := strings.TrimSpace(r.PathValue("id"))
		if id == "" {
			response.Error(w, errors.BadRequestError("Missing product id"))
			return
		}

		product, err := h.catalogService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.String("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// ListCategories godoc
//	@Summary		List catalog categories
//	@Description	Distinct categories in the order they first appear in the catalog.
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{object}	models.CategoryListResponse	"Categories"
//	@Failure		500	{object}	response.ErrorResponse		"Internal server error"
//	@Router			/catalog/categories [get]
func (h *CatalogHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		categories, err := h.catalogService.Categories(r.Context())
		if err != nil {
			logger.Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

// ListPaymentTerms godoc
//	@Summary		List payment terms
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{array}	handlers.PaymentTermOption	"Selectable payment terms"
//	@Router			/catalog/payment-terms [get]
func (h *CatalogHandler) ListPaymentTerms() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {

		terms := models.PaymentTermsOptions()

		options := make([]PaymentTermOption, 0, len(terms))
		for _, t := range terms {
			options = append(options, PaymentTermOption{Value: t, Label: t.Display()})
		}

		response.Success(w, http.StatusOK, options)
	}
}
