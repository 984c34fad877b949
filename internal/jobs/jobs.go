package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"inventra-backend/domain"
	"inventra-backend/entities"
	"inventra-backend/internal/utils/mailing"
	"inventra-backend/pkg/inventory"
	"inventra-backend/pkg/recipe"
	"time"
)

type (
	LowStockSource interface {
		LowStock(ctx context.Context) ([]*entities.InventoryItem, error)
	}

	RecipeSource interface {
		ListRecipes(ctx context.Context, withAvailability bool) ([]domain.RecipeResponse, error)
	}

	// Mailer matches mailing.SendMail.
	Mailer func(toEmail string, subject string, body string) error

	Uploader interface {
		UploadBytes(ctx context.Context, key string, body []byte, contentType string) error
	}

	// Backup is the document written by SnapshotBackup.
	Backup struct {
		TakenAt   time.Time                      `json:"takenAt"`
		Inventory []domain.InventoryItemResponse `json:"inventory"`
		Recipes   []domain.RecipeResponse        `json:"recipes"`
	}
)

// LowStockAlert mails the current low stock list to recipient. It sends nothing when
// no item is low. It returns how many items were reported.
func LowStockAlert(ctx context.Context, source LowStockSource, send Mailer, recipient string) (int, error) {
	items, err := source.LowStock(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing low stock: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	if err := send(recipient, mailing.LowStockSubject(len(items)), mailing.LowStockBody(items)); err != nil {
		return 0, fmt.Errorf("sending low stock alert: %w", err)
	}
	zap.L().Info("low stock alert sent", zap.Int("items", len(items)), zap.String("to", recipient))
	return len(items), nil
}

// SnapshotBackup uploads every item and recipe as snapshots/<timestamp>.json and returns the key.
func SnapshotBackup(ctx context.Context, snapshots recipe.SnapshotSource, recipes RecipeSource, uploader Uploader, now time.Time) (string, error) {
	var (
		snapshot   *inventory.Snapshot
		recipeList []domain.RecipeResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if snapshot, err = snapshots.Snapshot(gctx); err != nil {
			return fmt.Errorf("taking inventory snapshot: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if recipeList, err = recipes.ListRecipes(gctx, false); err != nil {
			return fmt.Errorf("listing recipes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	body, err := json.Marshal(Backup{
		TakenAt:   now.UTC(),
		Inventory: inventory.ToItemResponses(snapshot.Items()),
		Recipes:   recipeList,
	})
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("snapshots/%s.json", now.UTC().Format("20060102T150405Z"))
	if err := uploader.UploadBytes(ctx, key, body, "application/json"); err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}
	zap.L().Info("snapshot backup uploaded", zap.String("key", key), zap.Int("bytes", len(body)))
	return key, nil
}
