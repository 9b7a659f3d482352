package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
)

// CreateShipmentRequest carries everything the carrier needs to register a
// shipment: the resolved location codes, the recipient contact data and the
// package parameters.
type CreateShipmentRequest struct {
	OrderNumber   string
	RecipientName string
	Phone         string
	Email         string

	SiteID   int64
	StreetID *int64
	Street   string
	StreetNo string
	Postcode string

	// Weight is the total package weight in kilograms.
	Weight float64

	// CashOnDelivery is the amount the courier collects on delivery,
	// zero when the payment was already captured.
	CashOnDelivery float64

	Contents string
}

// CreateShipmentResult is the carrier's answer to a shipment registration.
type CreateShipmentResult struct {
	ShipmentID string

	// ParcelIDs lists the carrier parcel ids; the first one becomes the
	// order's AWB.
	ParcelIDs []string

	LabelURL string
}

// ParcelUpdate is one tracked parcel's latest state translated into the
// domain status set. The carrier's own status text is kept for logging.
type ParcelUpdate struct {
	ParcelID  string
	Status    order.Status
	RawStatus string
}

// ShipmentGateway is the boundary contract over the shipping carrier's API:
// location lookup, shipment registration, cancellation and tracking.
//
// All failures surface as errs.GatewayError, except location lookups that
// find nothing, which return errs.ObjectNotFoundError. Carrier-specific
// status and operation codes never leak through this interface; the adapter
// owns the translation table.
type ShipmentGateway interface {
	// Courier returns the carrier's name, recorded on orders whose
	// shipments it carries.
	Courier() string

	// FindCountry resolves a country name to the carrier's country id.
	FindCountry(ctx context.Context, name string) (int64, error)

	// FindSite resolves a city name within a country to the carrier's
	// site id.
	FindSite(ctx context.Context, countryID int64, city string) (int64, error)

	// FindStreet resolves a street name within a site to the carrier's
	// street id. An unknown street is tolerated and returns nil, not an
	// error; the shipment is then created with the raw street text.
	FindStreet(ctx context.Context, siteID int64, street string) (*int64, error)

	// CreateShipment registers a shipment with the carrier.
	CreateShipment(ctx context.Context, req CreateShipmentRequest) (CreateShipmentResult, error)

	// CancelShipment cancels a registered shipment, with a human-readable reason.
	CancelShipment(ctx context.Context, shipmentID, reason string) error

	// Track returns the latest state of the given parcels. With
	// lastOperationOnly the carrier reports only each parcel's most
	// recent operation.
	Track(ctx context.Context, parcelIDs []string, lastOperationOnly bool) ([]ParcelUpdate, error)
}
