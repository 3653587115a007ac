package models

import (
    "time"

    "github.com/shopspring/decimal"
)

// RankAndRewards maps accumulated matching pairs to a rank. Members are
// promoted when their pair count crosses the Pairs threshold.
type RankAndRewards struct {
    ID         uint            `json:"id" gorm:"primaryKey"`
    RankNo     uint            `json:"rank_no" gorm:"uniqueIndex;not null"`
    RankName   string          `json:"rank_name" gorm:"not null"`
    Royalty    decimal.Decimal `json:"royalty" gorm:"type:decimal(12,2);default:0"`
    Pairs      uint            `json:"pairs" gorm:"default:0"`
    Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);default:0"`
    RewardName string          `json:"reward_name"`
    CreatedAt  time.Time       `json:"created_at"`
    UpdatedAt  time.Time       `json:"updated_at"`
}
