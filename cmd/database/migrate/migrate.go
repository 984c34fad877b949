package migration

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
	"inventra-backend/entities"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4() backs the default primary keys
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";").Error; err != nil {
		return err
	}

	if err := db.AutoMigrate(&entities.InventoryItem{}); err != nil {
		zap.L().Error("Error migrating inventory item database", zap.Error(err))
		return err
	}
	if err := db.AutoMigrate(&entities.StockTransaction{}); err != nil {
		zap.L().Error("Error migrating stock transaction database", zap.Error(err))
		return err
	}
	if err := db.AutoMigrate(&entities.Recipe{}); err != nil {
		zap.L().Error("Error migrating recipe database", zap.Error(err))
		return err
	}

	zap.L().Info("Database migration complete")
	return nil
}
