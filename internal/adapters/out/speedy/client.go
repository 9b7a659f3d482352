// Package speedy implements the shipment gateway against the Speedy courier
// JSON API: location lookup, shipment registration, cancellation and parcel
// tracking. Carrier-specific operation codes are translated into the order
// lifecycle here and never leak past the ports boundary.
package speedy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const (
	defaultBaseURL = "https://api.speedy.bg/v1"
	defaultTimeout = 15 * time.Second

	// courierName is recorded on orders whose shipments this gateway
	// carries.
	courierName = "speedy"

	// lookupAttempts bounds the retries for idempotent lookup calls when
	// the transport fails. Shipment registration is never retried here;
	// that call is not idempotent.
	lookupAttempts = 2
)

// operationStatuses translates Speedy tracking operation codes into the
// order lifecycle. Codes not listed map to order.Unknown and the caller
// leaves the order as it is.
var operationStatuses = map[int]order.Status{
	1:  order.Shipped,   // accepted from sender
	2:  order.Shipped,   // in transit between hubs
	3:  order.Shipped,   // out for delivery
	9:  order.Completed, // delivered
	70: order.Cancelled, // returned to sender
	90: order.Cancelled, // shipment cancelled
}

// Config carries the carrier account and transport settings.
type Config struct {
	BaseURL  string
	UserName string
	Password string
	Language string
	Timeout  time.Duration
}

// Client talks to the Speedy JSON API and implements ports.ShipmentGateway.
type Client struct {
	baseURL  string
	userName string
	password string
	language string
	http     *http.Client
}

// NewClient creates a gateway client from the carrier configuration.
// Zero-valued settings fall back to defaults.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	language := cfg.Language
	if language == "" {
		language = "EN"
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		userName: cfg.UserName,
		password: cfg.Password,
		language: language,
		http:     &http.Client{Timeout: timeout},
	}
}

// Courier returns the carrier's name.
func (c *Client) Courier() string {
	return courierName
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type countryResponse struct {
	Countries []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"countries"`
	Error *apiError `json:"error"`
}

// FindCountry resolves a country name to the carrier's country id.
func (c *Client) FindCountry(ctx context.Context, name string) (int64, error) {
	var out countryResponse
	err := c.postWithRetry(ctx, "/location/country", map[string]any{
		"name": name,
	}, &out)
	if err != nil {
		return 0, err
	}
	if err := out.Error.check("find country"); err != nil {
		return 0, err
	}
	if len(out.Countries) == 0 {
		return 0, errs.NewObjectNotFoundError("country", name)
	}

	return out.Countries[0].ID, nil
}

type siteResponse struct {
	Sites []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"sites"`
	Error *apiError `json:"error"`
}

// FindSite resolves a city name within a country to the carrier's site id.
func (c *Client) FindSite(ctx context.Context, countryID int64, city string) (int64, error) {
	var out siteResponse
	err := c.postWithRetry(ctx, "/location/site", map[string]any{
		"countryId": countryID,
		"name":      city,
	}, &out)
	if err != nil {
		return 0, err
	}
	if err := out.Error.check("find site"); err != nil {
		return 0, err
	}
	if len(out.Sites) == 0 {
		return 0, errs.NewObjectNotFoundError("site", city)
	}

	return out.Sites[0].ID, nil
}

type streetResponse struct {
	Streets []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"streets"`
	Error *apiError `json:"error"`
}

// FindStreet resolves a street name within a site to the carrier's street
// id. An unknown street returns nil, not an error; the shipment is then
// created with the raw street text.
func (c *Client) FindStreet(ctx context.Context, siteID int64, street string) (*int64, error) {
	var out streetResponse
	err := c.postWithRetry(ctx, "/location/street", map[string]any{
		"siteId": siteID,
		"name":   street,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := out.Error.check("find street"); err != nil {
		return nil, err
	}
	if len(out.Streets) == 0 {
		return nil, nil
	}

	return &out.Streets[0].ID, nil
}

type shipmentResponse struct {
	ID      string `json:"id"`
	Parcels []struct {
		ID string `json:"id"`
	} `json:"parcels"`
	PrintURL string    `json:"printURL"`
	Error    *apiError `json:"error"`
}

// CreateShipment registers a shipment with the carrier. The call is made
// exactly once; a transport failure surfaces as a gateway error and the
// caller decides whether to retry.
func (c *Client) CreateShipment(
	ctx context.Context,
	req ports.CreateShipmentRequest,
) (ports.CreateShipmentResult, error) {
	address := map[string]any{
		"siteId":   req.SiteID,
		"streetNo": req.StreetNo,
		"postCode": req.Postcode,
	}
	if req.StreetID != nil {
		address["streetId"] = *req.StreetID
	} else {
		address["streetName"] = req.Street
	}

	payload := map[string]any{
		"recipient": map[string]any{
			"clientName":    req.RecipientName,
			"phone1":        map[string]any{"number": req.Phone},
			"email":         req.Email,
			"privatePerson": true,
			"address":       address,
		},
		"content": map[string]any{
			"parcelsCount": 1,
			"totalWeight":  req.Weight,
			"contents":     req.Contents,
			"package":      "BOX",
		},
		"payment": map[string]any{
			"courierServicePayer": "SENDER",
		},
		"ref1": req.OrderNumber,
	}
	if req.CashOnDelivery > 0 {
		payload["service"] = map[string]any{
			"additionalServices": map[string]any{
				"cod": map[string]any{
					"amount":         req.CashOnDelivery,
					"processingType": "CASH",
				},
			},
		}
	}

	var out shipmentResponse
	if err := c.post(ctx, "/shipment", payload, &out); err != nil {
		return ports.CreateShipmentResult{}, err
	}
	if err := out.Error.check("create shipment"); err != nil {
		return ports.CreateShipmentResult{}, err
	}

	result := ports.CreateShipmentResult{
		ShipmentID: out.ID,
		ParcelIDs:  make([]string, 0, len(out.Parcels)),
		LabelURL:   out.PrintURL,
	}
	for _, parcel := range out.Parcels {
		result.ParcelIDs = append(result.ParcelIDs, parcel.ID)
	}

	return result, nil
}

type cancelResponse struct {
	Error *apiError `json:"error"`
}

// CancelShipment cancels a registered shipment.
func (c *Client) CancelShipment(ctx context.Context, shipmentID, reason string) error {
	var out cancelResponse
	err := c.post(ctx, "/shipment/cancel", map[string]any{
		"shipmentId": shipmentID,
		"comment":    reason,
	}, &out)
	if err != nil {
		return err
	}

	return out.Error.check("cancel shipment")
}

type trackResponse struct {
	Parcels []struct {
		ID         string `json:"id"`
		Operations []struct {
			Code        int    `json:"code"`
			Description string `json:"description"`
		} `json:"operations"`
	} `json:"parcels"`
	Error *apiError `json:"error"`
}

// Track returns the latest state of the given parcels, translated into the
// order lifecycle.
func (c *Client) Track(
	ctx context.Context,
	parcelIDs []string,
	lastOperationOnly bool,
) ([]ports.ParcelUpdate, error) {
	parcels := make([]map[string]any, 0, len(parcelIDs))
	for _, id := range parcelIDs {
		parcels = append(parcels, map[string]any{"id": id})
	}

	var out trackResponse
	err := c.postWithRetry(ctx, "/track", map[string]any{
		"parcels":           parcels,
		"lastOperationOnly": lastOperationOnly,
	}, &out)
	if err != nil {
		return nil, err
	}
	if err := out.Error.check("track parcels"); err != nil {
		return nil, err
	}

	updates := make([]ports.ParcelUpdate, 0, len(out.Parcels))
	for _, parcel := range out.Parcels {
		if len(parcel.Operations) == 0 {
			continue
		}
		last := parcel.Operations[len(parcel.Operations)-1]
		updates = append(updates, ports.ParcelUpdate{
			ParcelID:  parcel.ID,
			Status:    operationStatuses[last.Code],
			RawStatus: last.Description,
		})
	}

	return updates, nil
}

// check converts a carrier-reported error into an errs.GatewayError.
func (e *apiError) check(op string) error {
	if e == nil {
		return nil
	}
	return errs.NewGatewayError(op, strconv.Itoa(e.Code), e.Message)
}

// postWithRetry retries idempotent calls once when the transport fails.
func (c *Client) postWithRetry(ctx context.Context, path string, payload map[string]any, out any) error {
	var err error
	for attempt := 0; attempt < lookupAttempts; attempt++ {
		err = c.post(ctx, path, payload, out)
		if err == nil || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (c *Client) post(ctx context.Context, path string, payload map[string]any, out any) error {
	body := map[string]any{
		"userName": c.userName,
		"password": c.password,
		"language": c.language,
	}
	for key, value := range payload {
		body[key] = value
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return errs.NewGatewayErrorWithCause(path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return errs.NewGatewayErrorWithCause(path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errs.NewGatewayErrorWithCause(path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewGatewayErrorWithCause(path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return errs.NewGatewayError(path, strconv.Itoa(resp.StatusCode), strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errs.NewGatewayErrorWithCause(path, err)
	}

	return nil
}
