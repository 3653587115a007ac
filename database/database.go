package database

import (
    "github.com/MrSumitKumar/msk/models"

    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    "gorm.io/gorm/logger"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
    return InitializeWithLogger(databaseURL, logger.Default.LogMode(logger.Info))
}

func InitializeWithLogger(databaseURL string, l logger.Interface) (*gorm.DB, error) {
    db, err := gorm.Open(sqlite.Open(databaseURL), &gorm.Config{
        Logger: l,
    })
    if err != nil {
        return nil, err
    }

    // Auto-migrate models
    err = db.AutoMigrate(
        &models.User{},
        &models.Member{},
        &models.Plan{},
        &models.Level{},
        &models.RankAndRewards{},
        &models.MemberPlan{},
        &models.IncomeHistory{},
        &models.WalletTransaction{},
        &models.CompanyWallet{},
        &models.PaymentRequest{},
        &models.AuditLog{},
    )
    if err != nil {
        return nil, err
    }

    // The company wallet is a single well-known row created once.
    wallet := models.CompanyWallet{ID: models.CompanyWalletID}
    if err := db.FirstOrCreate(&wallet, models.CompanyWallet{ID: models.CompanyWalletID}).Error; err != nil {
        return nil, err
    }

    return db, nil
}
