package database

import (
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shifa-backend/internal/config"
	"shifa-backend/internal/models"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("cannot connect to database")
	}

	err = DB.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.LabTest{},
		&models.PharmacyItem{},
		&models.PharmacySale{},
		&models.GlassSale{},
		&models.ExpenseCategory{},
		&models.Expense{},
		&models.AuditLog{},
	)
	if err != nil {
		logrus.WithError(err).Fatal("auto-migration failed")
	}

	logrus.Info("database connected, migrations applied")
}
