package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	shipmentTrackingJob *ShipmentTrackingJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the unit of work factory, carrier gateway and status update handler
// as dependencies to wire up the job execution.
func NewJobManager(
	uowFactory commands.OrderUoWFactory,
	gateway ports.ShipmentGateway,
	statusHandler commands.UpdateOrderStatusCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		shipmentTrackingJob: NewShipmentTrackingJob(uowFactory, gateway, statusHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.shipmentTrackingJob.Start(); err != nil {
		return fmt.Errorf("failed to start shipment tracking job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.shipmentTrackingJob.Stop()
}
