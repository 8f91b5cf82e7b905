package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/domain"
	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/middleware"
)

const dateLayout = "2006-01-02"

// parseDate accepts RFC 3339 timestamps or plain dates. A plain date used as an
// upper bound covers the whole day.
func parseDate(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// parseOptionalDate parses value when present.
func parseOptionalDate(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(value, endOfDay)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type ledgerHandler struct {
	ledgerService   portssvc.LedgerSvcFacade
	categoryService portssvc.CategorySvcFacade
}

// RegisterLedgerRoutes registers the chart of accounts and ledger entry routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, categoryService portssvc.CategorySvcFacade) {
	h := &ledgerHandler{ledgerService: ledgerService, categoryService: categoryService}

	categories := rg.Group("/categories")
	{
		categories.GET("", h.listCategories)
		categories.POST("", h.createCategory)
	}

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/entries", h.listEntries)
		ledger.POST("/entries", h.postManualEntry)
	}
}

// listCategories godoc
// @Summary List categories
// @Description Lists the seller's chart of accounts, optionally filtered by type
// @Tags ledger
// @Produce  json
// @Param   type query string false "Category type" Enums(INCOME, EXPENSE, ASSET, LIABILITY)
// @Success 200 {array} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /categories [get]
func (h *ledgerHandler) listCategories(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	var params dto.ListCategoriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	categories, err := h.categoryService.ListCategories(c.Request.Context(), sellerID, params.Type)
	if err != nil {
		respondError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToCategoryResponses(categories))
}

// createCategory godoc
// @Summary Create a category
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   category body dto.CreateCategoryRequest true "Category details"
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Parent category not found"
// @Failure 409 {object} map[string]string "Category already exists"
// @Security BearerAuth
// @Router /categories [post]
func (h *ledgerHandler) createCategory(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	category, err := h.categoryService.CreateCategory(c.Request.Context(), sellerID, req)
	if err != nil {
		respondError(c, err, "create category")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCategoryResponse(category))
}

// listEntries godoc
// @Summary List ledger entries
// @Description Lists ledger entries newest first with cursor pagination
// @Tags ledger
// @Produce  json
// @Param   from query string false "Start date (YYYY-MM-DD or RFC 3339)"
// @Param   to query string false "End date (YYYY-MM-DD or RFC 3339)"
// @Param   categoryID query string false "Category ID"
// @Param   sourceType query string false "Source type" Enums(QUOTE, ORDER, INVOICE, PAYMENT, ADJUSTMENT, EXPENSE)
// @Param   sourceID query string false "Source document ID"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /ledger/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	from, err := parseOptionalDate(params.From, false)
	if err != nil {
		badRequest(c, "Invalid 'from' date", err)
		return
	}
	to, err := parseOptionalDate(params.To, true)
	if err != nil {
		badRequest(c, "Invalid 'to' date", err)
		return
	}

	filter := domain.LedgerFilter{
		DateRange:  domain.DateRange{From: from, To: to},
		CategoryID: params.CategoryID,
		SourceType: params.SourceType,
		SourceID:   params.SourceID,
		Limit:      params.Limit,
		NextToken:  params.NextToken,
	}
	entries, nextToken, err := h.ledgerService.GetEntries(c.Request.Context(), sellerID, filter)
	if err != nil {
		respondError(c, err, "list ledger entries")
		return
	}
	c.JSON(http.StatusOK, dto.ListEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	})
}

// postManualEntry godoc
// @Summary Post a manual entry
// @Description Posts a balanced adjustment or expense between two of the seller's categories
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateManualEntryRequest true "Entry details"
// @Success 201 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /ledger/entries [post]
func (h *ledgerHandler) postManualEntry(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	pair, err := h.ledgerService.PostManual(c.Request.Context(), sellerID, req)
	if err != nil {
		respondError(c, err, "post manual entry")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Manual entry posted", slog.String("transaction_group_id", pair[0].TransactionGroupID))
	c.JSON(http.StatusCreated, dto.ListEntriesResponse{Entries: dto.ToLedgerEntryResponses(pair[:])})
}
