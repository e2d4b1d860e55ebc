package jobs

import (
	"context"
	"log/slog"
	"time"

	"booking/internal/core/application/usecases/commands"
	"booking/internal/core/domain/model/order"
	"booking/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// StaleBroadcastJob watches for orders sitting in broadcasting with no
// acceptance and reminds the operator. It never mutates the order: offers do
// not expire on a timer, and whether to re-broadcast, self-assign, or keep
// waiting stays an operator decision.
type StaleBroadcastJob struct {
	uowFactory      commands.OrderUoWFactory
	notifier        ports.NotificationDispatcher
	operatorChannel string
	threshold       time.Duration
	cron            *cron.Cron
	logger          *slog.Logger
}

// NewStaleBroadcastJob creates a job flagging broadcasts older than threshold.
func NewStaleBroadcastJob(
	uowFactory commands.OrderUoWFactory,
	notifier ports.NotificationDispatcher,
	operatorChannel string,
	threshold time.Duration,
	logger *slog.Logger,
) *StaleBroadcastJob {
	return &StaleBroadcastJob{
		uowFactory:      uowFactory,
		notifier:        notifier,
		operatorChannel: operatorChannel,
		threshold:       threshold,
		cron:            cron.New(),
		logger:          logger.With("component", "stale_broadcast_job"),
	}
}

// Start schedules the job to run every minute.
func (j *StaleBroadcastJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		ctx := context.Background()
		if err := j.run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "stale broadcast sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "stale broadcast job started",
		"threshold", j.threshold.String())
	return nil
}

// Stop stops the job.
func (j *StaleBroadcastJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "stale broadcast job stopped")
}

func (j *StaleBroadcastJob) run(ctx context.Context) error {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	broadcasting, err := uow.OrderRepository().GetAllInStatus(ctx, order.Broadcasting)
	if err != nil {
		return err
	}

	cutoff := time.Now().UTC().Add(-j.threshold)
	for _, aggregate := range broadcasting {
		if aggregate.UpdatedAt().After(cutoff) {
			continue
		}
		j.notifyOperator(ctx, aggregate)
	}

	return nil
}

func (j *StaleBroadcastJob) notifyOperator(ctx context.Context, aggregate *order.Order) {
	err := j.notifier.Notify(ctx, j.operatorChannel, "operator_stale_broadcast", map[string]any{
		"order_id":       aggregate.ID().String(),
		"city":           aggregate.City(),
		"open_offers":    len(aggregate.BroadcastSet()),
		"broadcast_age":  time.Since(aggregate.UpdatedAt()).Round(time.Minute).String(),
		"last_update_at": aggregate.UpdatedAt().Format(time.RFC3339),
	})
	if err != nil {
		j.logger.ErrorContext(ctx, "failed to flag stale broadcast",
			"order_id", aggregate.ID().String(),
			"error", err)
	}
}
