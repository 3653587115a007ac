package models

import (
    "time"

    "github.com/shopspring/decimal"
    "gorm.io/gorm"
)

const (
    PositionLeft  = "LEFT"
    PositionRight = "RIGHT"

    StatusActive   = "ACTIVE"
    StatusInactive = "INACTIVE"
)

// Member is the binary-tree network profile of a user. Sponsor is the
// referrer; HeadMember is the actual tree parent, which may differ from
// the sponsor after BFS placement. LeftCount/RightCount cache the true
// descendant count on each side and are maintained inside the placement
// transaction.
type Member struct {
    ID     uint `json:"id" gorm:"primaryKey"`
    UserID uint `json:"user_id" gorm:"uniqueIndex;not null"`
    User   User `json:"user" gorm:"foreignKey:UserID"`

    SponsorID    *uint   `json:"sponsor_id" gorm:"index"`
    Sponsor      *Member `json:"-" gorm:"foreignKey:SponsorID"`
    HeadMemberID *uint   `json:"head_member_id" gorm:"index"`
    HeadMember   *Member `json:"-" gorm:"foreignKey:HeadMemberID"`
    Position     *string `json:"position"`

    LeftID  *uint   `json:"left_id"`
    Left    *Member `json:"-" gorm:"foreignKey:LeftID"`
    RightID *uint   `json:"right_id"`
    Right   *Member `json:"-" gorm:"foreignKey:RightID"`

    LeftCount  uint `json:"left_count" gorm:"default:0"`
    RightCount uint `json:"right_count" gorm:"default:0"`

    RankNo           uint `json:"rank_no" gorm:"default:0"`
    MatchingPairs    uint `json:"matching_pairs" gorm:"default:0"`
    AllMatchingPairs uint `json:"all_matching_pairs" gorm:"default:0"`

    AccountBalance  decimal.Decimal `json:"account_balance" gorm:"type:decimal(18,2);default:0"`
    WalletBalance   decimal.Decimal `json:"wallet_balance" gorm:"type:decimal(18,2);default:0"`
    TotalWithdrawal decimal.Decimal `json:"total_withdrawal" gorm:"type:decimal(18,2);default:0"`

    TodayIncome    decimal.Decimal `json:"today_income" gorm:"type:decimal(18,2);default:0"`
    TotalIncome    decimal.Decimal `json:"total_income" gorm:"type:decimal(18,2);default:0"`
    DirectIncome   decimal.Decimal `json:"direct_income" gorm:"type:decimal(18,2);default:0"`
    LevelIncome    decimal.Decimal `json:"level_income" gorm:"type:decimal(18,2);default:0"`
    ResaleIncome   decimal.Decimal `json:"resale_income" gorm:"type:decimal(18,2);default:0"`
    MatchingIncome decimal.Decimal `json:"matching_income" gorm:"type:decimal(18,2);default:0"`

    Status string `json:"status" gorm:"default:INACTIVE;index"`
    Block  bool   `json:"block" gorm:"default:false"`

    CreatedAt time.Time      `json:"joined_on"`
    UpdatedAt time.Time      `json:"last_updated"`
    DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
