package models

import (
    "time"

    "gorm.io/gorm"
)

const (
    PurchasePending   = "Pending"
    PurchaseCompleted = "Completed"
    PurchaseFailed    = "Failed"
)

// MemberPlan is one plan purchase by a member. It is created Pending and the
// Pending -> Completed transition is the single trigger for commission
// settlement.
type MemberPlan struct {
    ID        uint           `json:"id" gorm:"primaryKey"`
    MemberID  uint           `json:"member_id" gorm:"not null;index"`
    Member    Member         `json:"-" gorm:"foreignKey:MemberID"`
    PlanID    uint           `json:"plan_id" gorm:"not null"`
    Plan      Plan           `json:"plan" gorm:"foreignKey:PlanID"`
    Status    string         `json:"status" gorm:"default:Pending;index"`
    CreatedAt time.Time      `json:"purchased_date"`
    UpdatedAt time.Time      `json:"updated_at"`
    DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type PurchaseRequest struct {
    PlanID uint `json:"plan_id" validate:"required,gt=0"`
}
