package models

import (
    "time"

    "github.com/shopspring/decimal"
    "gorm.io/gorm"
)

const (
    PayoutPending   = "pending"
    PayoutApproved  = "approved"
    PayoutRejected  = "rejected"
    PayoutCompleted = "completed"
    PayoutCancelled = "cancelled"

    RequestWithdrawal   = "withdrawal"
    RequestBankTransfer = "bank_transfer"
    RequestUPITransfer  = "upi_transfer"
)

// PaymentRequest is a member withdrawal request. Approval debits the member
// wallet and finalizes the request straight to completed; there is no
// persisted approved-but-unpaid state.
type PaymentRequest struct {
    ID                  uint            `json:"id" gorm:"primaryKey"`
    MemberID            uint            `json:"member_id" gorm:"not null;index"`
    Member              Member          `json:"-" gorm:"foreignKey:MemberID"`
    RequestType         string          `json:"request_type" gorm:"default:withdrawal"`
    Amount              decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
    WalletBalanceBefore decimal.Decimal `json:"wallet_balance_before" gorm:"type:decimal(18,2);default:0"`

    BankName          string `json:"bank_name"`
    AccountNumber     string `json:"account_number"`
    IFSCCode          string `json:"ifsc_code"`
    AccountHolderName string `json:"account_holder_name"`
    UPIID             string `json:"upi_id"`

    Description     string     `json:"description"`
    Status          string     `json:"status" gorm:"default:pending;index"`
    ApprovedByID    *uint      `json:"approved_by"`
    ApprovedBy      *User      `json:"-" gorm:"foreignKey:ApprovedByID"`
    ApprovalDate    *time.Time `json:"approval_date"`
    AdminNotes      string     `json:"admin_notes"`
    RejectionReason string     `json:"rejection_reason"`
    TransactionID   string     `json:"transaction_id"`
    CompletedDate   *time.Time `json:"completed_date"`

    CreatedAt time.Time      `json:"request_date"`
    UpdatedAt time.Time      `json:"updated_at"`
    DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type PayoutRequestInput struct {
    Amount            float64 `json:"amount" validate:"required,gt=0"`
    RequestType       string  `json:"request_type" validate:"omitempty,oneof=withdrawal bank_transfer upi_transfer"`
    BankName          string  `json:"bank_name"`
    AccountNumber     string  `json:"account_number" validate:"omitempty,min=6,max=40"`
    IFSCCode          string  `json:"ifsc_code" validate:"omitempty,len=11"`
    AccountHolderName string  `json:"account_holder_name"`
    UPIID             string  `json:"upi_id"`
    Description       string  `json:"description"`
}

type PayoutDecisionRequest struct {
    RequestID       uint   `json:"request_id" validate:"required,gt=0"`
    Status          string `json:"status" validate:"required,oneof=approved rejected"`
    AdminNotes      string `json:"admin_notes"`
    RejectionReason string `json:"rejection_reason"`
}
