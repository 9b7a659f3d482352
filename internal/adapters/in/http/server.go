// Package http exposes the order fulfillment use cases over a JSON API.
// It binds requests, translates application errors to HTTP statuses and
// keeps all transport concerns out of the core.
package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/cart"
	"fulfillment/internal/core/domain/model/details"
	"fulfillment/internal/core/domain/model/discount"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP handlers for the order API.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	checkoutHandler        commands.CheckoutCommandHandler
	updateStatusHandler    commands.UpdateOrderStatusCommandHandler
	requestShipmentHandler commands.RequestShipmentCommandHandler
	cancelShipmentHandler  commands.CancelShipmentCommandHandler
	deleteOrderHandler     commands.DeleteOrderCommandHandler

	// Query handlers
	getOrdersHandler queries.GetOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	checkoutHandler commands.CheckoutCommandHandler,
	updateStatusHandler commands.UpdateOrderStatusCommandHandler,
	requestShipmentHandler commands.RequestShipmentCommandHandler,
	cancelShipmentHandler commands.CancelShipmentCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	getOrdersHandler queries.GetOrdersQueryHandler,
) *Server {
	return &Server{
		checkoutHandler:        checkoutHandler,
		updateStatusHandler:    updateStatusHandler,
		requestShipmentHandler: requestShipmentHandler,
		cancelShipmentHandler:  cancelShipmentHandler,
		deleteOrderHandler:     deleteOrderHandler,
		getOrdersHandler:       getOrdersHandler,
	}
}

// RegisterRoutes attaches all order API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.Checkout)
	api.GET("/orders", s.GetOrders)
	api.POST("/orders/:id/status", s.UpdateOrderStatus)
	api.POST("/orders/:id/shipment", s.RequestShipment)
	api.DELETE("/orders/:id/shipment", s.CancelShipment)
	api.DELETE("/orders/:id", s.DeleteOrder)
}

// Checkout handles POST /api/v1/orders - places an order from a cart snapshot.
func (s *Server) Checkout(ctx echo.Context) error {
	var req CheckoutRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cartSnapshot, err := req.cartSnapshot()
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	recipient, err := details.NewDetails(
		kernel.NewUUID(),
		req.Details.FirstName, req.Details.LastName, req.Details.Email, req.Details.Phone,
		req.Details.Country, req.Details.City, req.Details.Street, req.Details.StreetNo, req.Details.Postcode,
		req.Details.OrderNotes,
	)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCheckoutCommand(orderID, cartSnapshot, recipient, order.PaymentType(req.PaymentType))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	handleErr := s.checkoutHandler.Handle(ctx.Request().Context(), cmd)
	recordOrderOperation("checkout", handleErr)
	if handleErr != nil {
		return errorJSON(ctx, statusFromError(handleErr), handleErr)
	}

	return ctx.JSON(http.StatusCreated, CheckoutResponse{ID: orderID.String()})
}

// GetOrders handles GET /api/v1/orders - lists orders, optionally filtered
// by status.
func (s *Server) GetOrders(ctx echo.Context) error {
	query := queries.NewGetOrdersQuery()

	if statusText := ctx.QueryParam("status"); statusText != "" {
		status, err := order.ParseStatusText(statusText)
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, err)
		}

		query, err = queries.NewGetOrdersQueryInStatus(status)
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, err)
		}
	}

	orders, err := s.getOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve orders",
		})
	}

	response := make([]OrderSummary, len(orders))
	for i, o := range orders {
		response[i] = OrderSummary{
			ID:            o.ID.String(),
			Number:        o.Number,
			CustomerName:  o.CustomerName,
			Status:        o.Status,
			PaymentType:   o.PaymentType,
			PaymentStatus: o.PaymentStatus,
			Total:         o.Total,
			Courier:       o.Courier,
			AWB:           o.AWB,
			CreatedAt:     o.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// UpdateOrderStatus handles POST /api/v1/orders/:id/status - moves an order
// to a new lifecycle status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	var req UpdateStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, req.Status)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	if handleErr := s.updateStatusHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return errorJSON(ctx, statusFromError(handleErr), handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RequestShipment handles POST /api/v1/orders/:id/shipment - registers a
// shipment with the carrier for the order.
func (s *Server) RequestShipment(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	cmd, err := commands.NewRequestShipmentCommand(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	handleErr := s.requestShipmentHandler.Handle(ctx.Request().Context(), cmd)
	recordOrderOperation("request_shipment", handleErr)
	if handleErr != nil {
		return errorJSON(ctx, statusFromError(handleErr), handleErr)
	}

	return ctx.NoContent(http.StatusCreated)
}

// CancelShipment handles DELETE /api/v1/orders/:id/shipment - cancels the
// order's shipment with the carrier.
func (s *Server) CancelShipment(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	// The body is optional; an empty reason falls back to the default.
	var req CancelShipmentRequest
	if ctx.Request().ContentLength > 0 {
		if bindErr := ctx.Bind(&req); bindErr != nil {
			return ctx.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    http.StatusBadRequest,
				Message: "Invalid request body",
			})
		}
	}

	cmd, err := commands.NewCancelShipmentCommand(orderID, req.Reason)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	handleErr := s.cancelShipmentHandler.Handle(ctx.Request().Context(), cmd)
	recordOrderOperation("cancel_shipment", handleErr)
	if handleErr != nil {
		return errorJSON(ctx, statusFromError(handleErr), handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeleteOrder handles DELETE /api/v1/orders/:id - deletes the order and all
// its dependent records.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err)
	}

	handleErr := s.deleteOrderHandler.Handle(ctx.Request().Context(), cmd)
	recordOrderOperation("delete_order", handleErr)
	if handleErr != nil {
		return errorJSON(ctx, statusFromError(handleErr), handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// cartSnapshot rebuilds the cart value from the request payload.
func (r CheckoutRequest) cartSnapshot() (cart.Cart, error) {
	lines := make([]cart.Line, 0, len(r.Items))
	for _, item := range r.Items {
		productID, err := kernel.UUIDFromString(item.ProductID)
		if err != nil {
			return cart.Cart{}, err
		}

		line, err := cart.NewLine(productID, item.Size, item.Quantity, item.Price, item.Weight)
		if err != nil {
			return cart.Cart{}, err
		}
		lines = append(lines, line)
	}

	discounts := make([]discount.Application, 0, len(r.Discounts))
	for _, app := range r.Discounts {
		application, err := discount.NewApplication(app.Code, discount.Type(app.Type), app.Value)
		if err != nil {
			return cart.Cart{}, err
		}
		discounts = append(discounts, application)
	}

	return cart.Load(lines, discounts), nil
}
