package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckoutCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	recipient := fixtureDetails(t)
	cmd, err := commands.NewCheckoutCommand(
		kernel.NewUUID(), fixtureCart(t), recipient, order.PaymentTypeCard)
	require.NoError(t, err)

	var placed *order.Order
	orderRepo := new(MockOrderRepository)
	detailsRepo := new(MockDetailsRepository)
	uow := new(MockCheckoutUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("LastNumber", ctx).Return("SSA0041", nil).Once(),
		uow.On("DetailsRepository").Return(detailsRepo).Once(),
		detailsRepo.On("Add", mock.Anything, recipient).Return(nil).Once(),
		orderRepo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) { placed = args.Get(1).(*order.Order) }).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCheckoutUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCheckoutCommandHandler(factory, 5)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.NotNil(t, placed)
	assert.Equal(t, "SSA0042", placed.Number())
	assert.Equal(t, recipient.ID(), placed.DetailsID())
	assert.Equal(t, order.Processing, placed.Status())
	assert.Equal(t, order.PaymentCompleted, placed.PaymentStatus())
	assert.InDelta(t, 85.0, placed.Total(), 1e-9) // 2x40 + 5 shipping

	orderRepo.AssertExpectations(t)
	detailsRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCheckoutCommandHandler_Handle_RetriesOnNumberConflict(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCheckoutCommand(
		kernel.NewUUID(), fixtureCart(t), fixtureDetails(t), order.PaymentTypeCashOnDelivery)
	require.NoError(t, err)

	conflict := errs.NewConflictError("insert order", errors.New("duplicate key"))

	var placed *order.Order
	orderRepo := new(MockOrderRepository)
	detailsRepo := new(MockDetailsRepository)
	uow := new(MockCheckoutUoW)
	uow.On("Begin", ctx).Return(nil).Times(2)
	uow.On("OrderRepository").Return(orderRepo).Times(2)
	uow.On("DetailsRepository").Return(detailsRepo).Times(2)
	uow.On("Rollback", ctx).Return(nil).Times(2)
	uow.On("Commit", ctx).Return(nil).Once()
	detailsRepo.On("Add", mock.Anything, mock.Anything).Return(nil).Times(2)

	// A racing checkout took SSA0042; the second attempt re-reads the
	// last number and lands on SSA0043.
	orderRepo.On("LastNumber", ctx).Return("SSA0041", nil).Once()
	orderRepo.On("Add", mock.Anything, mock.Anything).Return(conflict).Once()
	orderRepo.On("LastNumber", ctx).Return("SSA0042", nil).Once()
	orderRepo.On("Add", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { placed = args.Get(1).(*order.Order) }).
		Return(nil).Once()

	factory := new(MockCheckoutUoWFactory)
	factory.On("Create").Return(uow).Times(2)

	h := commands.NewCheckoutCommandHandler(factory, 5)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.NotNil(t, placed)
	assert.Equal(t, "SSA0043", placed.Number())
	assert.Equal(t, order.PaymentPending, placed.PaymentStatus())

	orderRepo.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCheckoutCommandHandler_Handle_GivesUpAfterRepeatedConflicts(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCheckoutCommand(
		kernel.NewUUID(), fixtureCart(t), fixtureDetails(t), order.PaymentTypeCard)
	require.NoError(t, err)

	conflict := errs.NewConflictError("insert order", errors.New("duplicate key"))

	orderRepo := new(MockOrderRepository)
	detailsRepo := new(MockDetailsRepository)
	uow := new(MockCheckoutUoW)
	uow.On("Begin", ctx).Return(nil).Times(3)
	uow.On("OrderRepository").Return(orderRepo).Times(3)
	uow.On("DetailsRepository").Return(detailsRepo).Times(3)
	uow.On("Rollback", ctx).Return(nil).Times(3)
	detailsRepo.On("Add", mock.Anything, mock.Anything).Return(nil).Times(3)
	orderRepo.On("LastNumber", ctx).Return("SSA0041", nil).Times(3)
	orderRepo.On("Add", mock.Anything, mock.Anything).Return(conflict).Times(3)

	factory := new(MockCheckoutUoWFactory)
	factory.On("Create").Return(uow).Times(3)

	h := commands.NewCheckoutCommandHandler(factory, 5)
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConflict)

	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCheckoutCommandHandler_Handle_NoRetryOnOtherErrors(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCheckoutCommand(
		kernel.NewUUID(), fixtureCart(t), fixtureDetails(t), order.PaymentTypeCard)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	detailsRepo := new(MockDetailsRepository)
	uow := new(MockCheckoutUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("LastNumber", ctx).Return("SSA0041", nil).Once(),
		uow.On("DetailsRepository").Return(detailsRepo).Once(),
		detailsRepo.On("Add", mock.Anything, mock.Anything).Return(nil).Once(),
		orderRepo.On("Add", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCheckoutUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCheckoutCommandHandler(factory, 5)
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrConflict)

	factory.AssertExpectations(t)
}

func TestCheckoutCommandHandler_Handle_NumberSpaceExhausted(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCheckoutCommand(
		kernel.NewUUID(), fixtureCart(t), fixtureDetails(t), order.PaymentTypeCard)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockCheckoutUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("LastNumber", ctx).Return("SSAZ9999", nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCheckoutUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCheckoutCommandHandler(factory, 5)
	err = h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, order.ErrNumberSpaceExhausted)
	orderRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCheckoutCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CheckoutCommand{} // not constructed properly
	factory := new(MockCheckoutUoWFactory)
	h := commands.NewCheckoutCommandHandler(factory, 5)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCheckoutCommandIsNotConstructed)
}
