package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/details"
	"fulfillment/internal/core/domain/model/discount"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) LastNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountByDetailsID(ctx context.Context, detailsID kernel.UUID) (int64, error) {
	args := m.Called(ctx, detailsID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) DeleteItems(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteDiscountLinks(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockDetailsRepository struct{ mock.Mock }

func (m *MockDetailsRepository) Add(ctx context.Context, record *details.Details) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDetailsRepository) Get(ctx context.Context, id kernel.UUID) (*details.Details, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*details.Details), args.Error(1)
}

func (m *MockDetailsRepository) Delete(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockReviewRepository struct{ mock.Mock }

func (m *MockReviewRepository) DeleteForOrder(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockShipmentGateway struct{ mock.Mock }

func (m *MockShipmentGateway) Courier() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockShipmentGateway) FindCountry(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShipmentGateway) FindSite(ctx context.Context, countryID int64, city string) (int64, error) {
	args := m.Called(ctx, countryID, city)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShipmentGateway) FindStreet(ctx context.Context, siteID int64, street string) (*int64, error) {
	args := m.Called(ctx, siteID, street)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

func (m *MockShipmentGateway) CreateShipment(
	ctx context.Context,
	req ports.CreateShipmentRequest,
) (ports.CreateShipmentResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.CreateShipmentResult), args.Error(1)
}

func (m *MockShipmentGateway) CancelShipment(ctx context.Context, shipmentID, reason string) error {
	args := m.Called(ctx, shipmentID, reason)
	return args.Error(0)
}

func (m *MockShipmentGateway) Track(
	ctx context.Context,
	parcelIDs []string,
	lastOperationOnly bool,
) ([]ports.ParcelUpdate, error) {
	args := m.Called(ctx, parcelIDs, lastOperationOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.ParcelUpdate), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCheckoutUoW struct{ mock.Mock }

func (m *MockCheckoutUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCheckoutUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCheckoutUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCheckoutUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockCheckoutUoW) DetailsRepository() ports.DetailsRepository {
	args := m.Called()
	return args.Get(0).(ports.DetailsRepository)
}

type MockCheckoutUoWFactory struct{ mock.Mock }

func (m *MockCheckoutUoWFactory) Create() commands.CheckoutUoW {
	args := m.Called()
	return args.Get(0).(commands.CheckoutUoW)
}

type MockDeletionUoW struct{ mock.Mock }

func (m *MockDeletionUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeletionUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeletionUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeletionUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockDeletionUoW) DetailsRepository() ports.DetailsRepository {
	args := m.Called()
	return args.Get(0).(ports.DetailsRepository)
}

func (m *MockDeletionUoW) ReviewRepository() ports.ReviewRepository {
	args := m.Called()
	return args.Get(0).(ports.ReviewRepository)
}

type MockDeletionUoWFactory struct{ mock.Mock }

func (m *MockDeletionUoWFactory) Create() commands.DeletionUoW {
	args := m.Called()
	return args.Get(0).(commands.DeletionUoW)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureDetails(t *testing.T) *details.Details {
	t.Helper()
	d, err := details.NewDetails(
		kernel.NewUUID(),
		"Maria", "Petrova", "maria@example.com", "+359888123456",
		"Bulgaria", "Sofia", "Vitosha Blvd", "17", "1000",
		"",
	)
	require.NoError(t, err)
	return d
}

func fixtureItems(t *testing.T) []order.Item {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), "M", 2, 40, nil)
	require.NoError(t, err)
	return []order.Item{item}
}

// fixtureOrder restores an order in the given status, optionally carrying a
// shipment, paid by card so no cash is due on delivery.
func fixtureOrder(t *testing.T, status order.Status, shipment *order.Shipment) *order.Order {
	t.Helper()
	aggregate, err := order.RestoreOrder(
		kernel.NewUUID(),
		"SSA0042",
		kernel.NewUUID(),
		fixtureItems(t),
		[]discount.Application{},
		5,
		85,
		order.PaymentTypeCard,
		order.PaymentCompleted,
		status,
		shipment,
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return aggregate
}

// fixtureCashOrder restores a cash-on-delivery order whose payment is still
// pending.
func fixtureCashOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	aggregate, err := order.RestoreOrder(
		kernel.NewUUID(),
		"SSA0043",
		kernel.NewUUID(),
		fixtureItems(t),
		[]discount.Application{},
		5,
		85,
		order.PaymentTypeCashOnDelivery,
		order.PaymentPending,
		status,
		nil,
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return aggregate
}

func fixtureShipment(t *testing.T) *order.Shipment {
	t.Helper()
	shipment, err := order.NewShipment("speedy", "AWB100", "SHIP100")
	require.NoError(t, err)
	return &shipment
}
