package config

import (
	"context"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"inventra-backend/internal/jobs"
	"inventra-backend/internal/utils"
	"inventra-backend/internal/utils/mailing"
	"inventra-backend/internal/utils/storage"
	"time"
)

const jobTimeout = 2 * time.Minute

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// NewScheduler registers the low stock alert and snapshot backup jobs that have
// their settings present. The caller starts and stops the returned scheduler.
func NewScheduler(ctx context.Context, services Services) (*cron.Cron, error) {
	sched := cron.New(cron.WithParser(cronParser), cron.WithChain(cron.Recover(cron.DefaultLogger)))

	recipient := utils.GetConfig("LOW_STOCK_ALERT_EMAIL")
	if recipient != "" && mailing.LoadMailConfig().Configured() {
		_, err := sched.AddFunc(utils.GetConfig("LOW_STOCK_ALERT_CRON"), func() {
			jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()
			if _, err := jobs.LowStockAlert(jobCtx, services.Inventory, mailing.SendMail, recipient); err != nil {
				zap.L().Error("low stock alert job failed", zap.Error(err))
			}
		})
		if err != nil {
			return nil, err
		}
	} else {
		zap.L().Info("low stock alert job disabled: LOW_STOCK_ALERT_EMAIL or SMTP settings missing")
	}

	if utils.GetConfig("AWS_S3_BUCKET") != "" {
		s3, err := storage.NewAwsS3(ctx)
		if err != nil {
			return nil, err
		}
		_, err = sched.AddFunc(utils.GetConfig("BACKUP_CRON"), func() {
			jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()
			if _, err := jobs.SnapshotBackup(jobCtx, services.Inventory, services.Recipes, s3, time.Now()); err != nil {
				zap.L().Error("snapshot backup job failed", zap.Error(err))
			}
		})
		if err != nil {
			return nil, err
		}
	} else {
		zap.L().Info("snapshot backup job disabled: AWS_S3_BUCKET missing")
	}

	return sched, nil
}
