package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/details"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// defaultShipmentContents is the package contents declaration sent to the
// carrier with every shipment.
const defaultShipmentContents = "apparel"

// RequestShipmentCommandHandler registers a shipment with the carrier for an
// order and records the courier name, AWB and shipment id on the order as a
// single atomic update.
//
// The carrier calls happen outside any database transaction: the order and
// its details are read first, the carrier is called, and only then is the
// order re-read and updated in a short transaction. A carrier failure leaves
// the order untouched.
type RequestShipmentCommandHandler struct {
	uowFactory CheckoutUoWFactory
	gateway    ports.ShipmentGateway
}

// NewRequestShipmentCommandHandler creates a handler for shipment registration.
func NewRequestShipmentCommandHandler(
	uowFactory CheckoutUoWFactory,
	gateway ports.ShipmentGateway,
) RequestShipmentCommandHandler {
	return RequestShipmentCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
	}
}

// Handle processes the shipment registration command.
//
// The recipient address is resolved to the carrier's location codes first;
// a country or city the carrier does not know fails validation. An unknown
// street is tolerated and sent as raw text. Cash on delivery is set to the
// order total when the payment has not been captured yet.
func (h *RequestShipmentCommandHandler) Handle(ctx context.Context, cmd RequestShipmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	aggregate, recipient, err := h.load(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if aggregate.HasShipment() {
		return errs.NewValueIsInvalidError("order already has a registered shipment")
	}

	shipment, err := h.registerWithCarrier(ctx, aggregate, recipient)
	if err != nil {
		return err
	}

	return h.assign(ctx, cmd.OrderID(), shipment)
}

// load reads the order and its details record in a read-only transaction.
func (h *RequestShipmentCommandHandler) load(
	ctx context.Context,
	orderID kernel.UUID,
) (*order.Order, *details.Details, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	recipient, err := uow.DetailsRepository().Get(ctx, aggregate.DetailsID())
	if err != nil {
		return nil, nil, err
	}

	return aggregate, recipient, nil
}

func (h *RequestShipmentCommandHandler) registerWithCarrier(
	ctx context.Context,
	aggregate *order.Order,
	recipient *details.Details,
) (order.Shipment, error) {
	countryID, err := h.gateway.FindCountry(ctx, recipient.Country())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.Shipment{}, errs.NewValueIsInvalidErrorWithCause("recipient country", err)
	}
	if err != nil {
		return order.Shipment{}, err
	}

	siteID, err := h.gateway.FindSite(ctx, countryID, recipient.City())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return order.Shipment{}, errs.NewValueIsInvalidErrorWithCause("recipient city", err)
	}
	if err != nil {
		return order.Shipment{}, err
	}

	streetID, err := h.gateway.FindStreet(ctx, siteID, recipient.Street())
	if err != nil {
		return order.Shipment{}, err
	}

	var cashOnDelivery float64
	if aggregate.PaymentStatus() == order.PaymentPending {
		cashOnDelivery = aggregate.Total()
	}

	result, err := h.gateway.CreateShipment(ctx, ports.CreateShipmentRequest{
		OrderNumber:    aggregate.Number(),
		RecipientName:  recipient.FullName(),
		Phone:          recipient.Phone(),
		Email:          recipient.Email(),
		SiteID:         siteID,
		StreetID:       streetID,
		Street:         recipient.Street(),
		StreetNo:       recipient.StreetNo(),
		Postcode:       recipient.Postcode(),
		Weight:         aggregate.PackageWeight(),
		CashOnDelivery: cashOnDelivery,
		Contents:       defaultShipmentContents,
	})
	if err != nil {
		return order.Shipment{}, err
	}
	if len(result.ParcelIDs) == 0 {
		return order.Shipment{}, errs.NewGatewayError("create shipment", "", "carrier returned no parcels")
	}

	return order.NewShipment(h.gateway.Courier(), result.ParcelIDs[0], result.ShipmentID)
}

// assign re-reads the order and persists the shipment triple atomically.
func (h *RequestShipmentCommandHandler) assign(
	ctx context.Context,
	orderID kernel.UUID,
	shipment order.Shipment,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	if err = aggregate.AssignShipment(shipment); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
