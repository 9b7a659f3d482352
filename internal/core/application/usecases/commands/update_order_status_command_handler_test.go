package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpdateOrderStatusCommandHandler_Handle_SimpleTransition(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Processing, nil)
	cmd, err := commands.NewUpdateOrderStatusCommand(aggregate.ID(), "Shipped")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()
	gateway := new(MockShipmentGateway)

	h := commands.NewUpdateOrderStatusCommandHandler(factory, gateway, discardLogger())
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, order.Shipped, aggregate.Status())
	gateway.AssertNotCalled(t, "CancelShipment", mock.Anything, mock.Anything, mock.Anything)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_CancellationCancelsShipmentBetweenTransactions(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Shipped, fixtureShipment(t))
	cmd, err := commands.NewUpdateOrderStatusCommand(aggregate.ID(), "Cancelled")
	require.NoError(t, err)

	readRepo := new(MockOrderRepository)
	readUow := new(MockOrderUoW)
	writeRepo := new(MockOrderRepository)
	writeUow := new(MockOrderUoW)
	gateway := new(MockShipmentGateway)

	// The carrier is notified after the read transaction has rolled back and
	// before the write transaction begins, so no lock on the order row spans
	// the network call.
	mock.InOrder(
		readUow.On("Begin", ctx).Return(nil).Once(),
		readUow.On("OrderRepository").Return(readRepo).Once(),
		readRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		readUow.On("Rollback", ctx).Return(nil).Once(),
		gateway.On("CancelShipment", mock.Anything, "SHIP100", "order cancelled").Return(nil).Once(),
		writeUow.On("Begin", ctx).Return(nil).Once(),
		writeUow.On("OrderRepository").Return(writeRepo).Once(),
		writeRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		writeRepo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		writeUow.On("Commit", ctx).Return(nil).Once(),
		writeUow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(readUow).Once()
	factory.On("Create").Return(writeUow).Once()

	h := commands.NewUpdateOrderStatusCommandHandler(factory, gateway, discardLogger())
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, order.Cancelled, aggregate.Status())
	assert.False(t, aggregate.HasShipment())
	gateway.AssertExpectations(t)
	readUow.AssertExpectations(t)
	writeUow.AssertExpectations(t)
	readRepo.AssertExpectations(t)
	writeRepo.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_CarrierFailureDoesNotBlockCancellation(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Shipped, fixtureShipment(t))
	cmd, err := commands.NewUpdateOrderStatusCommand(aggregate.ID(), "Cancelled")
	require.NoError(t, err)

	readRepo := new(MockOrderRepository)
	readRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()

	readUow := new(MockOrderUoW)
	readUow.On("Begin", ctx).Return(nil).Once()
	readUow.On("OrderRepository").Return(readRepo).Once()
	readUow.On("Rollback", ctx).Return(nil).Once()

	writeRepo := new(MockOrderRepository)
	writeRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	writeRepo.On("Update", mock.Anything, aggregate).Return(nil).Once()

	writeUow := new(MockOrderUoW)
	writeUow.On("Begin", ctx).Return(nil).Once()
	writeUow.On("OrderRepository").Return(writeRepo).Once()
	writeUow.On("Commit", ctx).Return(nil).Once()
	writeUow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(readUow).Once()
	factory.On("Create").Return(writeUow).Once()

	gateway := new(MockShipmentGateway)
	gateway.On("CancelShipment", mock.Anything, "SHIP100", "order cancelled").
		Return(errors.New("carrier is down")).Once()

	h := commands.NewUpdateOrderStatusCommandHandler(factory, gateway, discardLogger())
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	// The carrier call is made exactly once; its failure still clears the
	// shipment and persists the cancellation.
	assert.Equal(t, order.Cancelled, aggregate.Status())
	assert.False(t, aggregate.HasShipment())
	gateway.AssertNumberOfCalls(t, "CancelShipment", 1)
	writeRepo.AssertExpectations(t)
	writeUow.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_CancellationWithoutShipmentSkipsCarrier(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Processing, nil)
	cmd, err := commands.NewUpdateOrderStatusCommand(aggregate.ID(), "Cancelled")
	require.NoError(t, err)

	readRepo := new(MockOrderRepository)
	readRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()

	readUow := new(MockOrderUoW)
	readUow.On("Begin", ctx).Return(nil).Once()
	readUow.On("OrderRepository").Return(readRepo).Once()
	readUow.On("Rollback", ctx).Return(nil).Once()

	writeRepo := new(MockOrderRepository)
	writeRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	writeRepo.On("Update", mock.Anything, aggregate).Return(nil).Once()

	writeUow := new(MockOrderUoW)
	writeUow.On("Begin", ctx).Return(nil).Once()
	writeUow.On("OrderRepository").Return(writeRepo).Once()
	writeUow.On("Commit", ctx).Return(nil).Once()
	writeUow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(readUow).Once()
	factory.On("Create").Return(writeUow).Once()

	gateway := new(MockShipmentGateway)

	h := commands.NewUpdateOrderStatusCommandHandler(factory, gateway, discardLogger())
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, order.Cancelled, aggregate.Status())
	gateway.AssertNotCalled(t, "CancelShipment", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatusCommandHandler_Handle_CompletionCapturesPayment(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureCashOrder(t, order.Shipped)
	cmd, err := commands.NewUpdateOrderStatusCommand(aggregate.ID(), "Delivered")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	orderRepo.On("Update", mock.Anything, aggregate).Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateOrderStatusCommandHandler(factory, new(MockShipmentGateway), discardLogger())
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, order.Completed, aggregate.Status())
	assert.Equal(t, order.PaymentCompleted, aggregate.PaymentStatus())
}

func TestUpdateOrderStatusCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Completed, nil)
	cmd, err := commands.NewUpdateOrderStatusCommand(aggregate.ID(), "Processing")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateOrderStatusCommandHandler(factory, new(MockShipmentGateway), discardLogger())
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
