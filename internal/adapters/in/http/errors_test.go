package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"fulfillment/internal/pkg/errs"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"object not found", errs.NewObjectNotFoundError("order", "a"), http.StatusNotFound},
		{"invalid value", errs.NewValueIsInvalidError("status"), http.StatusBadRequest},
		{"required value", errs.NewValueIsRequiredError("status text"), http.StatusBadRequest},
		{"conflict", errs.NewConflictError("commit", errors.New("deadlock")), http.StatusConflict},
		{"gateway", errs.NewGatewayError("create shipment", "1102", "bad address"), http.StatusBadGateway},
		{"unclassified", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
