package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateOrderStatusCommand_ParsesStatusText(t *testing.T) {
	tests := []struct {
		text string
		want order.Status
	}{
		{"Shipped", order.Shipped},
		{"In Transit", order.Shipped},
		{"Cancelled", order.Cancelled},
		{"Отказана", order.Cancelled},
		{"Delivered", order.Completed},
		{"Доставена", order.Completed},
		{"Refunded", order.Refunded},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd, err := commands.NewUpdateOrderStatusCommand(kernel.NewUUID(), tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.Status())
			assert.Equal(t, tt.text, cmd.StatusText())
		})
	}
}

func TestNewUpdateOrderStatusCommand_UnknownText(t *testing.T) {
	_, err := commands.NewUpdateOrderStatusCommand(kernel.NewUUID(), "teleported")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewUpdateOrderStatusCommand_InvalidOrderID(t *testing.T) {
	_, err := commands.NewUpdateOrderStatusCommand(kernel.UUID{}, "Shipped")
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}
