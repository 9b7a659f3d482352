package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// trackingSchedule polls the carrier every five minutes. Parcel movement is
// slow; polling faster only burns the carrier's rate limit.
const trackingSchedule = "0 */5 * * * *"

// ShipmentTrackingJob polls the carrier for all orders with a registered
// shipment that are still in transit and applies the reported lifecycle
// changes through the status update handler, so delivery and return
// side effects stay in one place.
type ShipmentTrackingJob struct {
	uowFactory commands.OrderUoWFactory
	gateway    ports.ShipmentGateway
	handler    commands.UpdateOrderStatusCommandHandler
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewShipmentTrackingJob creates a job that tracks shipped orders.
func NewShipmentTrackingJob(
	uowFactory commands.OrderUoWFactory,
	gateway ports.ShipmentGateway,
	handler commands.UpdateOrderStatusCommandHandler,
	logger *slog.Logger,
) *ShipmentTrackingJob {
	return &ShipmentTrackingJob{
		uowFactory: uowFactory,
		gateway:    gateway,
		handler:    handler,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "shipment_tracking_job"),
	}
}

// Start begins polling the carrier on the tracking schedule.
func (j *ShipmentTrackingJob) Start() error {
	_, err := j.cron.AddFunc(trackingSchedule, func() {
		ctx := context.Background()

		if err := j.run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Shipment tracking run failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Shipment tracking job started (running every five minutes)")
	return nil
}

// Stop stops the shipment tracking job.
func (j *ShipmentTrackingJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Shipment tracking job stopped")
}

// run performs one tracking pass. Per-order failures are logged and skipped
// so one bad order cannot stall the rest of the batch.
func (j *ShipmentTrackingJob) run(ctx context.Context) error {
	uow := j.uowFactory.Create()

	shipped, err := uow.OrderRepository().GetAllInStatus(ctx, order.Shipped)
	if err != nil {
		return err
	}

	byAWB := make(map[string]*order.Order, len(shipped))
	awbs := make([]string, 0, len(shipped))
	for _, o := range shipped {
		if !o.HasShipment() {
			continue
		}
		byAWB[o.Shipment().AWB()] = o
		awbs = append(awbs, o.Shipment().AWB())
	}

	if len(awbs) == 0 {
		return nil
	}

	updates, err := j.gateway.Track(ctx, awbs, true)
	if err != nil {
		return err
	}

	applied := 0
	for _, update := range updates {
		if update.Status == order.Unknown || update.Status == order.Shipped {
			continue
		}

		tracked, ok := byAWB[update.ParcelID]
		if !ok {
			continue
		}

		cmd, err := commands.NewUpdateOrderStatusCommand(tracked.ID(), update.Status.String())
		if err != nil {
			j.logger.ErrorContext(ctx, "Failed to build status update from tracking data",
				"order_number", tracked.Number(), "carrier_status", update.RawStatus, "error", err)
			continue
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Failed to apply tracked status",
				"order_number", tracked.Number(), "carrier_status", update.RawStatus, "error", err)
			continue
		}

		applied++
		j.logger.InfoContext(ctx, "Applied tracked status",
			"order_number", tracked.Number(), "status", update.Status.String(), "carrier_status", update.RawStatus)
	}

	if applied > 0 {
		j.logger.InfoContext(ctx, "Shipment tracking run finished", "tracked", len(awbs), "applied", applied)
	}

	return nil
}
