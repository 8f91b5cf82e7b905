package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
)

type quoteHandler struct {
	quoteService portssvc.QuoteSvcFacade
}

// RegisterQuoteRoutes registers routes related to quotes.
func RegisterQuoteRoutes(rg *gin.RouterGroup, quoteService portssvc.QuoteSvcFacade) {
	h := &quoteHandler{quoteService: quoteService}

	quotes := rg.Group("/quotes")
	{
		quotes.POST("", h.createQuote)
		quotes.GET("", h.listQuotes)
		quotes.GET("/:quoteID", h.getQuote)
		quotes.PATCH("/:quoteID", h.updateQuote)
		quotes.DELETE("/:quoteID", h.deleteQuote)
	}
}

// createQuote godoc
// @Summary Create a quote
// @Description Creates a DRAFT quote. A positive estimate is posted to the ledger as potential income.
// @Tags quotes
// @Accept  json
// @Produce  json
// @Param   quote body dto.CreateQuoteRequest true "Quote details"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to create quote"
// @Security BearerAuth
// @Router /quotes [post]
func (h *quoteHandler) createQuote(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	quote, err := h.quoteService.CreateQuote(c.Request.Context(), sellerID, req)
	if err != nil {
		respondError(c, err, "create quote")
		return
	}
	c.JSON(http.StatusCreated, dto.ToQuoteResponse(quote))
}

// listQuotes godoc
// @Summary List quotes
// @Tags quotes
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListQuotesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Security BearerAuth
// @Router /quotes [get]
func (h *quoteHandler) listQuotes(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}
	quotes, err := h.quoteService.ListQuotes(c.Request.Context(), sellerID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "list quotes")
		return
	}
	c.JSON(http.StatusOK, dto.ToListQuotesResponse(quotes))
}

// getQuote godoc
// @Summary Get a quote by ID
// @Tags quotes
// @Produce  json
// @Param   quoteID path string true "Quote ID"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} map[string]string "Quote not found"
// @Security BearerAuth
// @Router /quotes/{quoteID} [get]
func (h *quoteHandler) getQuote(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	quote, err := h.quoteService.GetQuote(c.Request.Context(), sellerID, c.Param("quoteID"))
	if err != nil {
		respondError(c, err, "get quote")
		return
	}
	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// updateQuote godoc
// @Summary Update a quote
// @Description Updates an unlinked quote. Converted, rejected and expired quotes are frozen.
// @Tags quotes
// @Accept  json
// @Produce  json
// @Param   quoteID path string true "Quote ID"
// @Param   quote body dto.UpdateQuoteRequest true "Fields to update"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Quote not found"
// @Failure 409 {object} map[string]string "Quote is frozen or the transition is not allowed"
// @Security BearerAuth
// @Router /quotes/{quoteID} [patch]
func (h *quoteHandler) updateQuote(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	quote, err := h.quoteService.UpdateQuote(c.Request.Context(), sellerID, c.Param("quoteID"), req)
	if err != nil {
		respondError(c, err, "update quote")
		return
	}
	c.JSON(http.StatusOK, dto.ToQuoteResponse(quote))
}

// deleteQuote godoc
// @Summary Delete a quote
// @Tags quotes
// @Param   quoteID path string true "Quote ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Quote not found"
// @Failure 409 {object} map[string]string "Quote is linked to an order"
// @Security BearerAuth
// @Router /quotes/{quoteID} [delete]
func (h *quoteHandler) deleteQuote(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	if err := h.quoteService.DeleteQuote(c.Request.Context(), sellerID, c.Param("quoteID")); err != nil {
		respondError(c, err, "delete quote")
		return
	}
	c.Status(http.StatusNoContent)
}
