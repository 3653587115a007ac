package models

import (
    "time"

    "github.com/shopspring/decimal"
    "gorm.io/gorm"
)

// Plan is a purchasable tier. Direct and Matching are absolute amounts paid
// as direct income and per-matched-pair income respectively.
type Plan struct {
    ID        uint            `json:"id" gorm:"primaryKey"`
    Name      string          `json:"name" gorm:"uniqueIndex;not null"`
    Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);default:0"`
    Direct    decimal.Decimal `json:"direct" gorm:"type:decimal(12,2);default:0"`
    Matching  decimal.Decimal `json:"matching" gorm:"type:decimal(12,2);default:0"`
    CreatedAt time.Time       `json:"created_at"`
    UpdatedAt time.Time       `json:"updated_at"`
    DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

// Level is the per-plan commission schedule for a single upline depth
// (1..10). DistributedAmount is an absolute level-income amount and
// ResalePercentage a percentage of the plan price.
type Level struct {
    ID                uint            `json:"id" gorm:"primaryKey"`
    PlanID            uint            `json:"plan_id" gorm:"not null;uniqueIndex:idx_plan_level"`
    Plan              Plan            `json:"-" gorm:"foreignKey:PlanID"`
    Level             uint            `json:"level" gorm:"not null;uniqueIndex:idx_plan_level"`
    DistributedAmount decimal.Decimal `json:"distributed_amount" gorm:"type:decimal(12,2);default:0"`
    ResalePercentage  decimal.Decimal `json:"resale_percentage" gorm:"type:decimal(5,2);default:0"`
    CreatedAt         time.Time       `json:"created_at"`
    UpdatedAt         time.Time       `json:"updated_at"`
}

type PlanRequest struct {
    Name     string  `json:"name" validate:"required,min=2,max=80"`
    Price    float64 `json:"price" validate:"required,gt=0"`
    Direct   float64 `json:"direct" validate:"gte=0"`
    Matching float64 `json:"matching" validate:"gte=0"`
}

type LevelRequest struct {
    Level             uint    `json:"level" validate:"required,min=1,max=10"`
    DistributedAmount float64 `json:"distributed_amount" validate:"gte=0"`
    ResalePercentage  float64 `json:"resale_percentage" validate:"gte=0,lte=100"`
}
