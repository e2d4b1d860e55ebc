// Package http exposes the booking engine over a JSON REST API.
package http

import (
	"errors"
	"net/http"
	"time"

	"booking/internal/core/application/usecases/commands"
	"booking/internal/core/application/usecases/queries"
	"booking/internal/core/domain/model/kernel"
	"booking/internal/core/domain/model/order"
	"booking/internal/core/ports"
	"booking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	placeOrderHandler        commands.PlaceOrderCommandHandler
	broadcastOrderHandler    commands.BroadcastOrderCommandHandler
	acceptOfferHandler       commands.AcceptOfferCommandHandler
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler

	getUncompletedOrdersHandler  queries.GetUncompletedOrdersQueryHandler
	getVendorOrderDetailsHandler queries.GetVendorOrderDetailsQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	broadcastOrderHandler commands.BroadcastOrderCommandHandler,
	acceptOfferHandler commands.AcceptOfferCommandHandler,
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler,
	getUncompletedOrdersHandler queries.GetUncompletedOrdersQueryHandler,
	getVendorOrderDetailsHandler queries.GetVendorOrderDetailsQueryHandler,
) *Server {
	return &Server{
		placeOrderHandler:            placeOrderHandler,
		broadcastOrderHandler:        broadcastOrderHandler,
		acceptOfferHandler:           acceptOfferHandler,
		changeOrderStatusHandler:     changeOrderStatusHandler,
		getUncompletedOrdersHandler:  getUncompletedOrdersHandler,
		getVendorOrderDetailsHandler: getVendorOrderDetailsHandler,
	}
}

// RegisterRoutes binds all API routes on the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.PUT("/orders/:orderId/broadcast", s.BroadcastOrder)
	api.PUT("/orders/:orderId/status", s.ChangeOrderStatus)

	api.POST("/vendors/accept", s.AcceptOffer)
	api.GET("/vendors/details/:orderId", s.GetVendorOrderDetails)

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// Error is the JSON error body every failed request returns.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LineItemRequest is one cart line in a checkout request. Prices are in paise.
type LineItemRequest struct {
	ProductID     string `json:"productId"`
	ProductName   string `json:"productName"`
	Quantity      int    `json:"quantity"`
	UnitPrice     int64  `json:"unitPrice"`
	EventDate     string `json:"eventDate"`
	EventTimeSlot string `json:"eventTimeSlot"`
	Note          string `json:"note,omitempty"`
}

// PaymentRequest carries the gateway callback fields.
type PaymentRequest struct {
	GatewayOrderID string `json:"gatewayOrderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature"`
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	CustomerID string            `json:"customerId"`
	City       string            `json:"city"`
	LineItems  []LineItemRequest `json:"lineItems"`
	Fees       int64             `json:"fees"`
	Payment    PaymentRequest    `json:"payment"`
}

// OrderResponse is the order representation returned by mutating endpoints
// and the dashboard listing. Amounts are in paise.
type OrderResponse struct {
	ID               string  `json:"id"`
	City             string  `json:"city"`
	Status           string  `json:"status"`
	TotalAmount      int64   `json:"totalAmount"`
	AmountPaid       int64   `json:"amountPaid"`
	RemainingAmount  int64   `json:"remainingAmount"`
	AssignedVendorID *string `json:"assignedVendorId,omitempty"`
	CreatedAt        string  `json:"createdAt"`
}

// PlaceOrder handles POST /api/v1/orders - checkout.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var req PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return badRequest(ctx, "Invalid customer id: "+err.Error())
	}

	lineItems := make([]order.LineItem, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		lineItem, itemErr := toLineItem(item)
		if itemErr != nil {
			return badRequest(ctx, "Invalid line item: "+itemErr.Error())
		}
		lineItems = append(lineItems, lineItem)
	}

	fees, err := kernel.NewMoney(req.Fees)
	if err != nil {
		return badRequest(ctx, "Invalid fees: "+err.Error())
	}

	cmd, err := commands.NewPlaceOrderCommand(
		kernel.NewUUID(),
		customerID,
		req.City,
		lineItems,
		fees,
		ports.PaymentPayload{
			GatewayOrderID: req.Payment.GatewayOrderID,
			PaymentID:      req.Payment.PaymentID,
			Signature:      req.Payment.Signature,
		},
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	placed, err := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toOrderResponse(placed))
}

// BroadcastRequest names the vendors to offer an order to.
type BroadcastRequest struct {
	VendorIDs []string `json:"vendorIds"`
}

// BroadcastOrder handles PUT /api/v1/orders/:orderId/broadcast - offers the
// order to a set of vendors, replacing any previous open offers.
func (s *Server) BroadcastOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var req BroadcastRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	vendorIDs := make([]kernel.UUID, 0, len(req.VendorIDs))
	for _, raw := range req.VendorIDs {
		vendorID, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return badRequest(ctx, "Invalid vendor id: "+idErr.Error())
		}
		vendorIDs = append(vendorIDs, vendorID)
	}

	cmd, err := commands.NewBroadcastOrderCommand(orderID, vendorIDs)
	if err != nil {
		return badRequest(ctx, "Invalid broadcast data: "+err.Error())
	}

	broadcasted, err := s.broadcastOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(broadcasted))
}

// AcceptResponse reports how a vendor's accept attempt resolved.
type AcceptResponse struct {
	Outcome string `json:"outcome"`
}

// AcceptOffer handles POST /api/v1/vendors/accept - a vendor claiming a
// broadcast order. Losing the race is a resolved outcome, not an error.
func (s *Server) AcceptOffer(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.QueryParam("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}
	vendorID, err := kernel.UUIDFromString(ctx.QueryParam("vendorId"))
	if err != nil {
		return badRequest(ctx, "Invalid vendor id: "+err.Error())
	}

	cmd, err := commands.NewAcceptOfferCommand(orderID, vendorID)
	if err != nil {
		return badRequest(ctx, "Invalid accept data: "+err.Error())
	}

	outcome, err := s.acceptOfferHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	status := http.StatusOK
	if outcome == commands.OutcomeOfferExpired {
		status = http.StatusGone
	}

	return ctx.JSON(status, AcceptResponse{Outcome: outcome.String()})
}

// ChangeStatusRequest is an operator transition request. VendorID is required
// only when moving an order to in_progress.
type ChangeStatusRequest struct {
	Status   string `json:"status"`
	VendorID string `json:"vendorId,omitempty"`
}

// ChangeOrderStatus handles PUT /api/v1/orders/:orderId/status - operator
// transitions (settle balance, self-assign, complete, cancel).
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	var req ChangeStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+err.Error())
	}

	var vendorID *kernel.UUID
	if req.VendorID != "" {
		parsed, idErr := kernel.UUIDFromString(req.VendorID)
		if idErr != nil {
			return badRequest(ctx, "Invalid vendor id: "+idErr.Error())
		}
		vendorID = &parsed
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, target, vendorID)
	if err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	changed, err := s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(changed))
}

// GetActiveOrders handles GET /api/v1/orders/active - the operator dashboard
// listing of all orders outside the terminal statuses.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	query := queries.NewGetUncompletedOrdersQuery()

	orders, err := s.getUncompletedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]OrderResponse, len(orders))
	for i, o := range orders {
		var assignedVendorID *string
		if o.AssignedVendorID != nil {
			id := o.AssignedVendorID.String()
			assignedVendorID = &id
		}

		response[i] = OrderResponse{
			ID:               o.ID.String(),
			City:             o.City,
			Status:           o.Status.String(),
			TotalAmount:      o.TotalAmount.Paise(),
			AmountPaid:       o.AmountPaid.Paise(),
			RemainingAmount:  o.RemainingAmount.Paise(),
			AssignedVendorID: assignedVendorID,
			CreatedAt:        o.CreatedAt.Format(time.RFC3339),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetVendorOrderDetails handles GET /api/v1/vendors/details/:orderId - the
// order view shown to a vendor following an offer link.
func (s *Server) GetVendorOrderDetails(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}
	vendorID, err := kernel.UUIDFromString(ctx.QueryParam("vendorId"))
	if err != nil {
		return badRequest(ctx, "Invalid vendor id: "+err.Error())
	}

	query, err := queries.NewGetVendorOrderDetailsQuery(orderID, vendorID)
	if err != nil {
		return badRequest(ctx, "Invalid query: "+err.Error())
	}

	details, err := s.getVendorOrderDetailsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, details)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func toLineItem(req LineItemRequest) (order.LineItem, error) {
	productID, err := kernel.UUIDFromString(req.ProductID)
	if err != nil {
		return order.LineItem{}, err
	}

	unitPrice, err := kernel.NewMoney(req.UnitPrice)
	if err != nil {
		return order.LineItem{}, err
	}

	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return order.LineItem{}, errs.NewValueIsInvalidErrorWithCause("event date", err)
	}

	return order.NewLineItem(
		productID,
		req.ProductName,
		req.Quantity,
		unitPrice,
		eventDate,
		req.EventTimeSlot,
		req.Note,
	)
}

func toOrderResponse(o *order.Order) OrderResponse {
	var assignedVendorID *string
	if o.AssignedVendor() != nil {
		id := o.AssignedVendor().String()
		assignedVendorID = &id
	}

	return OrderResponse{
		ID:               o.ID().String(),
		City:             o.City(),
		Status:           o.Status().String(),
		TotalAmount:      o.TotalAmount().Paise(),
		AmountPaid:       o.AmountPaid().Paise(),
		RemainingAmount:  o.RemainingAmount().Paise(),
		AssignedVendorID: assignedVendorID,
		CreatedAt:        o.CreatedAt().Format(time.RFC3339),
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// respondError maps application errors onto HTTP statuses. An invalid
// transition names both statuses in the body so operators see exactly what
// they raced against.
func respondError(ctx echo.Context, err error) error {
	var transitionErr *order.InvalidTransitionError
	switch {
	case errors.As(err, &transitionErr):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: transitionErr.Error(),
		})
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrVendorAlreadyAssigned):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: "The order was modified concurrently, please retry",
		})
	case errors.Is(err, ports.ErrPaymentUnverified):
		return ctx.JSON(http.StatusPaymentRequired, Error{
			Code:    http.StatusPaymentRequired,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrVendorIDIsRequired):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}
