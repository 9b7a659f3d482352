package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testRetryDelay = time.Millisecond

func TestDeleteOrderCommandHandler_Handle_DeletesSolelyOwnedDetails(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Cancelled, nil)
	cmd, err := commands.NewDeleteOrderCommand(aggregate.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	detailsRepo := new(MockDetailsRepository)
	reviewRepo := new(MockReviewRepository)

	readUoW := new(MockDeletionUoW)
	readUoW.On("Begin", ctx).Return(nil).Once()
	readUoW.On("OrderRepository").Return(orderRepo).Once()
	readUoW.On("Rollback", ctx).Return(nil).Once()

	cascadeUoW := new(MockDeletionUoW)
	mock.InOrder(
		cascadeUoW.On("Begin", ctx).Return(nil).Once(),
		cascadeUoW.On("OrderRepository").Return(orderRepo).Once(),
		cascadeUoW.On("ReviewRepository").Return(reviewRepo).Once(),
		reviewRepo.On("DeleteForOrder", mock.Anything, aggregate.ID()).Return(nil).Once(),
		orderRepo.On("DeleteDiscountLinks", mock.Anything, aggregate.ID()).Return(nil).Once(),
		orderRepo.On("DeleteItems", mock.Anything, aggregate.ID()).Return(nil).Once(),
		orderRepo.On("CountByDetailsID", mock.Anything, aggregate.DetailsID()).Return(int64(1), nil).Once(),
		orderRepo.On("Delete", mock.Anything, aggregate.ID()).Return(nil).Once(),
		cascadeUoW.On("DetailsRepository").Return(detailsRepo).Once(),
		detailsRepo.On("Delete", mock.Anything, aggregate.DetailsID()).Return(nil).Once(),
		cascadeUoW.On("Commit", ctx).Return(nil).Once(),
		cascadeUoW.On("Rollback", ctx).Return(nil).Once(),
	)
	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Twice()

	factory := new(MockDeletionUoWFactory)
	factory.On("Create").Return(readUoW).Once()
	factory.On("Create").Return(cascadeUoW).Once()

	gateway := new(MockShipmentGateway)

	h := commands.NewDeleteOrderCommandHandler(factory, gateway, discardLogger(), testRetryDelay)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	gateway.AssertNotCalled(t, "CancelShipment", mock.Anything, mock.Anything, mock.Anything)
	orderRepo.AssertExpectations(t)
	detailsRepo.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestDeleteOrderCommandHandler_Handle_KeepsSharedDetails(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Cancelled, nil)
	cmd, err := commands.NewDeleteOrderCommand(aggregate.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	detailsRepo := new(MockDetailsRepository)
	reviewRepo := new(MockReviewRepository)

	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Twice()
	reviewRepo.On("DeleteForOrder", mock.Anything, aggregate.ID()).Return(nil).Once()
	orderRepo.On("DeleteDiscountLinks", mock.Anything, aggregate.ID()).Return(nil).Once()
	orderRepo.On("DeleteItems", mock.Anything, aggregate.ID()).Return(nil).Once()
	// Another order still references the same details record.
	orderRepo.On("CountByDetailsID", mock.Anything, aggregate.DetailsID()).Return(int64(2), nil).Once()
	orderRepo.On("Delete", mock.Anything, aggregate.ID()).Return(nil).Once()

	uow := new(MockDeletionUoW)
	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("OrderRepository").Return(orderRepo).Twice()
	uow.On("ReviewRepository").Return(reviewRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Twice()

	factory := new(MockDeletionUoWFactory)
	factory.On("Create").Return(uow).Twice()

	h := commands.NewDeleteOrderCommandHandler(factory, new(MockShipmentGateway), discardLogger(), testRetryDelay)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	detailsRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "DetailsRepository")
	orderRepo.AssertExpectations(t)
}

func TestDeleteOrderCommandHandler_Handle_CancelsShipmentBestEffort(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Shipped, fixtureShipment(t))
	cmd, err := commands.NewDeleteOrderCommand(aggregate.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	detailsRepo := new(MockDetailsRepository)
	reviewRepo := new(MockReviewRepository)

	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Twice()
	reviewRepo.On("DeleteForOrder", mock.Anything, aggregate.ID()).Return(nil).Once()
	orderRepo.On("DeleteDiscountLinks", mock.Anything, aggregate.ID()).Return(nil).Once()
	orderRepo.On("DeleteItems", mock.Anything, aggregate.ID()).Return(nil).Once()
	orderRepo.On("CountByDetailsID", mock.Anything, aggregate.DetailsID()).Return(int64(1), nil).Once()
	orderRepo.On("Delete", mock.Anything, aggregate.ID()).Return(nil).Once()
	detailsRepo.On("Delete", mock.Anything, aggregate.DetailsID()).Return(nil).Once()

	uow := new(MockDeletionUoW)
	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("OrderRepository").Return(orderRepo).Twice()
	uow.On("ReviewRepository").Return(reviewRepo).Once()
	uow.On("DetailsRepository").Return(detailsRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Twice()

	factory := new(MockDeletionUoWFactory)
	factory.On("Create").Return(uow).Twice()

	// The carrier is down; the deletion proceeds regardless.
	gateway := new(MockShipmentGateway)
	gateway.On("CancelShipment", mock.Anything, "SHIP100", "order deleted").
		Return(errors.New("carrier is down")).Once()

	h := commands.NewDeleteOrderCommandHandler(factory, gateway, discardLogger(), testRetryDelay)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	gateway.AssertNumberOfCalls(t, "CancelShipment", 1)
	orderRepo.AssertExpectations(t)
	detailsRepo.AssertExpectations(t)
}

func TestDeleteOrderCommandHandler_Handle_RetriesOnConflict(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Cancelled, nil)
	cmd, err := commands.NewDeleteOrderCommand(aggregate.ID())
	require.NoError(t, err)

	conflict := errs.NewConflictError("delete reviews", errors.New("lock timeout"))

	orderRepo := new(MockOrderRepository)
	detailsRepo := new(MockDetailsRepository)
	reviewRepo := new(MockReviewRepository)

	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Twice()
	// First cascade attempt loses a lock race, the second converges.
	reviewRepo.On("DeleteForOrder", mock.Anything, aggregate.ID()).Return(conflict).Once()
	reviewRepo.On("DeleteForOrder", mock.Anything, aggregate.ID()).Return(nil).Once()
	orderRepo.On("DeleteDiscountLinks", mock.Anything, aggregate.ID()).Return(nil).Once()
	orderRepo.On("DeleteItems", mock.Anything, aggregate.ID()).Return(nil).Once()
	orderRepo.On("CountByDetailsID", mock.Anything, aggregate.DetailsID()).Return(int64(1), nil).Once()
	orderRepo.On("Delete", mock.Anything, aggregate.ID()).Return(nil).Once()
	detailsRepo.On("Delete", mock.Anything, aggregate.DetailsID()).Return(nil).Once()

	uow := new(MockDeletionUoW)
	uow.On("Begin", ctx).Return(nil).Times(3)
	uow.On("OrderRepository").Return(orderRepo).Times(3)
	uow.On("ReviewRepository").Return(reviewRepo).Twice()
	uow.On("DetailsRepository").Return(detailsRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Times(3)

	factory := new(MockDeletionUoWFactory)
	factory.On("Create").Return(uow).Times(3)

	h := commands.NewDeleteOrderCommandHandler(factory, new(MockShipmentGateway), discardLogger(), testRetryDelay)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	reviewRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestDeleteOrderCommandHandler_Handle_GivesUpAfterThreeConflicts(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Cancelled, nil)
	cmd, err := commands.NewDeleteOrderCommand(aggregate.ID())
	require.NoError(t, err)

	conflict := errs.NewConflictError("delete reviews", errors.New("deadlock detected"))

	orderRepo := new(MockOrderRepository)
	reviewRepo := new(MockReviewRepository)
	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	reviewRepo.On("DeleteForOrder", mock.Anything, aggregate.ID()).Return(conflict).Times(3)

	uow := new(MockDeletionUoW)
	uow.On("Begin", ctx).Return(nil).Times(4)
	uow.On("OrderRepository").Return(orderRepo).Times(4)
	uow.On("ReviewRepository").Return(reviewRepo).Times(3)
	uow.On("Rollback", ctx).Return(nil).Times(4)

	factory := new(MockDeletionUoWFactory)
	factory.On("Create").Return(uow).Times(4)

	h := commands.NewDeleteOrderCommandHandler(factory, new(MockShipmentGateway), discardLogger(), testRetryDelay)
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConflict)

	reviewRepo.AssertNumberOfCalls(t, "DeleteForOrder", 3)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	factory.AssertExpectations(t)
}

func TestDeleteOrderCommandHandler_Handle_NoRetryOnOtherErrors(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Cancelled, nil)
	cmd, err := commands.NewDeleteOrderCommand(aggregate.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	reviewRepo := new(MockReviewRepository)
	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	reviewRepo.On("DeleteForOrder", mock.Anything, aggregate.ID()).Return(errors.New("disk full")).Once()

	uow := new(MockDeletionUoW)
	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("OrderRepository").Return(orderRepo).Twice()
	uow.On("ReviewRepository").Return(reviewRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Twice()

	factory := new(MockDeletionUoWFactory)
	factory.On("Create").Return(uow).Twice()

	h := commands.NewDeleteOrderCommandHandler(factory, new(MockShipmentGateway), discardLogger(), testRetryDelay)
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrConflict)

	reviewRepo.AssertNumberOfCalls(t, "DeleteForOrder", 1)
	factory.AssertExpectations(t)
}

func TestDeleteOrderCommandHandler_Handle_OrderAlreadyGoneMidCascade(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.Cancelled, nil)
	cmd, err := commands.NewDeleteOrderCommand(aggregate.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	reviewRepo := new(MockReviewRepository)

	orderRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once()
	reviewRepo.On("DeleteForOrder", mock.Anything, aggregate.ID()).Return(nil).Once()
	orderRepo.On("DeleteDiscountLinks", mock.Anything, aggregate.ID()).Return(nil).Once()
	orderRepo.On("DeleteItems", mock.Anything, aggregate.ID()).Return(nil).Once()
	// A concurrent delete removed the order row between the attempts.
	orderRepo.On("Get", mock.Anything, aggregate.ID()).
		Return(nil, errs.NewObjectNotFoundError("order", aggregate.ID().String())).Once()

	uow := new(MockDeletionUoW)
	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("OrderRepository").Return(orderRepo).Twice()
	uow.On("ReviewRepository").Return(reviewRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Twice()

	factory := new(MockDeletionUoWFactory)
	factory.On("Create").Return(uow).Twice()

	h := commands.NewDeleteOrderCommandHandler(factory, new(MockShipmentGateway), discardLogger(), testRetryDelay)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	orderRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	orderRepo.AssertExpectations(t)
}

func TestDeleteOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewDeleteOrderCommand(fixtureOrder(t, order.Cancelled, nil).ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	orderRepo.On("Get", mock.Anything, mock.Anything).
		Return(nil, errs.NewObjectNotFoundError("order", cmd.OrderID().String())).Once()

	uow := new(MockDeletionUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockDeletionUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDeleteOrderCommandHandler(factory, new(MockShipmentGateway), discardLogger(), testRetryDelay)
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}
