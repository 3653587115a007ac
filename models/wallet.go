package models

import (
    "time"

    "github.com/shopspring/decimal"
)

// Income types recorded in IncomeHistory.
const (
    IncomeDirect   = "direct_income"
    IncomeLevel    = "level_income"
    IncomeMatching = "matching_income"
    IncomeResale   = "resale_income"
    IncomeRoyalty  = "royalty_income"
    IncomeReward   = "reward_income"
)

// Wallet transaction types.
const (
    TxnCredit     = "credit"
    TxnDebit      = "debit"
    TxnWithdrawal = "withdrawal"
    TxnRecharge   = "recharge"
    TxnTransfer   = "transfer"
)

// CompanyWalletID is the primary key of the single pooled company wallet row.
const CompanyWalletID uint = 1

// CompanyWallet is the singleton pooled balance that funds all commission
// payouts. Balance never goes negative; debits that would overdraw it fail.
type CompanyWallet struct {
    ID             uint            `json:"id" gorm:"primaryKey"`
    Balance        decimal.Decimal `json:"balance" gorm:"type:decimal(18,2);default:0"`
    ChargesBalance decimal.Decimal `json:"charges_balance" gorm:"type:decimal(18,2);default:0"`
    CreatedAt      time.Time       `json:"created_at"`
    UpdatedAt      time.Time       `json:"updated_at"`
}

// IncomeHistory is an append-only audit row for every commission credit.
type IncomeHistory struct {
    ID          uint            `json:"id" gorm:"primaryKey"`
    MemberID    uint            `json:"member_id" gorm:"not null;index"`
    Member      Member          `json:"-" gorm:"foreignKey:MemberID"`
    IncomeType  string          `json:"income_type" gorm:"not null;index"`
    Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
    Description string          `json:"description"`
    CreatedAt   time.Time       `json:"created_at"`
}

// WalletTransaction is an append-only ledger row. BalanceAfter snapshots the
// member wallet balance immediately after the movement.
type WalletTransaction struct {
    ID           uint            `json:"id" gorm:"primaryKey"`
    MemberID     uint            `json:"member_id" gorm:"not null;index"`
    Member       Member          `json:"-" gorm:"foreignKey:MemberID"`
    Type         string          `json:"type" gorm:"not null"`
    Amount       decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
    BalanceAfter decimal.Decimal `json:"balance_after" gorm:"type:decimal(18,2);not null"`
    Description  string          `json:"description"`
    CreatedAt    time.Time       `json:"created_at"`
}
