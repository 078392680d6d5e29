package repository

import (
	"context"
	"time"

	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/infra/db"
)

const insertNotificationJobSQL = `
	INSERT INTO notification_jobs (kind, topic, payload, run_at)
	VALUES ($1, $2, $3, $4)`

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := dbtx.Exec(ctx, insertNotificationJobSQL, kind, topic, payload, runAt)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}
