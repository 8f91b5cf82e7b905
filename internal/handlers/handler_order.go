package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SochesdaThoeun/invoice-sys-sub000/internal/core/ports/services"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/dto"
	"github.com/SochesdaThoeun/invoice-sys-sub000/internal/middleware"
)

// orderHandler handles HTTP requests related to orders.
type orderHandler struct {
	orderService   portssvc.OrderSvcFacade
	invoiceService portssvc.InvoiceWriterSvc
}

// RegisterOrderRoutes registers routes related to orders, including their conversion to invoices.
func RegisterOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderSvcFacade, invoiceService portssvc.InvoiceWriterSvc) {
	h := &orderHandler{orderService: orderService, invoiceService: invoiceService}

	orders := rg.Group("/orders")
	{
		orders.POST("", h.createOrder)
		orders.POST("/from-quote/:quoteID", h.createOrderFromQuote)
		orders.GET("", h.listOrders)
		orders.GET("/:orderID", h.getOrder)
		orders.PATCH("/:orderID", h.updateOrder)
		orders.DELETE("/:orderID", h.deleteOrder)
		orders.POST("/:orderID/invoice", h.convertToInvoice)
	}
}

// createOrder godoc
// @Summary Create a new order
// @Description Creates an order, optionally with a linked quote and a draft invoice, and posts it to the ledger
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Failed to create order"
// @Security BearerAuth
// @Router /orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), sellerID, req)
	if err != nil {
		respondError(c, err, "create order")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Order created", slog.String("order_id", order.OrderID))
	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// createOrderFromQuote godoc
// @Summary Convert a quote into an order
// @Description Creates an order from an unlinked quote, accepts the quote and posts the order to the ledger
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   quoteID path string true "Quote ID"
// @Param   order body dto.CreateOrderFromQuoteRequest true "Order details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Quote not found"
// @Failure 409 {object} map[string]string "Quote already converted"
// @Failure 500 {object} map[string]string "Failed to create order"
// @Security BearerAuth
// @Router /orders/from-quote/{quoteID} [post]
func (h *orderHandler) createOrderFromQuote(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateOrderFromQuoteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request format", err)
			return
		}
	}

	order, err := h.orderService.CreateOrderFromQuote(c.Request.Context(), sellerID, c.Param("quoteID"), req)
	if err != nil {
		respondError(c, err, "create order from quote")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Order created from quote",
		slog.String("order_id", order.OrderID),
		slog.String("quote_id", c.Param("quoteID")),
	)
	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// listOrders godoc
// @Summary List orders
// @Description Lists the seller's orders newest first with their cart items, quote and invoice
// @Tags orders
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list orders"
// @Security BearerAuth
// @Router /orders [get]
func (h *orderHandler) listOrders(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	var params dto.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), sellerID, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err, "list orders")
		return
	}
	c.JSON(http.StatusOK, dto.ToListOrdersResponse(orders))
}

// getOrder godoc
// @Summary Get an order by ID
// @Tags orders
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 500 {object} map[string]string "Failed to retrieve order"
// @Security BearerAuth
// @Router /orders/{orderID} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), sellerID, c.Param("orderID"))
	if err != nil {
		respondError(c, err, "get order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// updateOrder godoc
// @Summary Update an order
// @Description Updates order fields. Cart items replace the whole cart and recompute the total.
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Param   order body dto.UpdateOrderRequest true "Fields to update"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 500 {object} map[string]string "Failed to update order"
// @Security BearerAuth
// @Router /orders/{orderID} [patch]
func (h *orderHandler) updateOrder(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), sellerID, c.Param("orderID"), req)
	if err != nil {
		respondError(c, err, "update order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// deleteOrder godoc
// @Summary Delete an order
// @Description Deletes an order with its cart items and draft invoice. Issued or paid invoices block deletion.
// @Tags orders
// @Param   orderID path string true "Order ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 409 {object} map[string]string "Order has an issued or paid invoice"
// @Failure 500 {object} map[string]string "Failed to delete order"
// @Security BearerAuth
// @Router /orders/{orderID} [delete]
func (h *orderHandler) deleteOrder(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), sellerID, c.Param("orderID")); err != nil {
		respondError(c, err, "delete order")
		return
	}
	c.Status(http.StatusNoContent)
}

// convertToInvoice godoc
// @Summary Convert an order into an invoice
// @Description Creates a DRAFT invoice for an order that has none
// @Tags orders
// @Accept  json
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Param   invoice body dto.ConvertOrderToInvoiceRequest false "Invoice presentation settings"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 409 {object} map[string]string "Order already invoiced"
// @Failure 500 {object} map[string]string "Failed to create invoice"
// @Security BearerAuth
// @Router /orders/{orderID}/invoice [post]
func (h *orderHandler) convertToInvoice(c *gin.Context) {
	sellerID, ok := sellerFromContext(c)
	if !ok {
		return
	}
	var req dto.ConvertOrderToInvoiceRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request format", err)
			return
		}
	}

	invoice, err := h.invoiceService.ConvertOrderToInvoice(c.Request.Context(), sellerID, c.Param("orderID"), req)
	if err != nil {
		respondError(c, err, "convert order to invoice")
		return
	}
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}
