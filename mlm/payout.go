package mlm

import (
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"
    "gorm.io/gorm"

    "github.com/MrSumitKumar/msk/models"
)

// RequestPayout opens a pending withdrawal request and snapshots the member's
// wallet balance. Funds are only debited at approval time.
func (s *Service) RequestPayout(memberID uint, input *models.PayoutRequestInput) (*models.PaymentRequest, error) {
    amount := decimal.NewFromFloat(input.Amount).Round(2)
    if !amount.IsPositive() {
        return nil, ErrInvalidAmount
    }

    member, err := s.GetMember(memberID)
    if err != nil {
        return nil, err
    }
    if member.WalletBalance.LessThan(amount) {
        return nil, ErrInsufficientBalance
    }

    requestType := input.RequestType
    if requestType == "" {
        requestType = models.RequestWithdrawal
    }

    request := models.PaymentRequest{
        MemberID:            memberID,
        RequestType:         requestType,
        Amount:              amount,
        WalletBalanceBefore: member.WalletBalance,
        BankName:            input.BankName,
        AccountNumber:       input.AccountNumber,
        IFSCCode:            input.IFSCCode,
        AccountHolderName:   input.AccountHolderName,
        UPIID:               input.UPIID,
        Description:         input.Description,
        Status:              models.PayoutPending,
    }
    if err := s.db.Create(&request).Error; err != nil {
        return nil, fmt.Errorf("failed to create payment request: %w", err)
    }
    return &request, nil
}

// ApprovePayout atomically debits the member wallet and finalizes the request
// straight to completed. An insufficient wallet balance is fatal here and
// leaves the request pending.
func (s *Service) ApprovePayout(requestID, approvedByUserID uint, adminNotes string) (*models.PaymentRequest, error) {
    tx := s.db.Begin()
    defer func() {
        if r := recover(); r != nil {
            tx.Rollback()
        }
    }()
    if err := tx.Error; err != nil {
        return nil, fmt.Errorf("failed to begin payout transaction: %w", err)
    }

    var request models.PaymentRequest
    if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&request, requestID).Error; err != nil {
        tx.Rollback()
        if err == gorm.ErrRecordNotFound {
            return nil, ErrPayoutNotFound
        }
        return nil, err
    }
    if request.Status != models.PayoutPending {
        tx.Rollback()
        return nil, ErrPayoutNotPending
    }

    member, err := s.lockMember(tx, request.MemberID)
    if err != nil {
        tx.Rollback()
        return nil, err
    }
    if member.WalletBalance.LessThan(request.Amount) {
        tx.Rollback()
        return nil, ErrInsufficientBalance
    }

    newBalance := member.WalletBalance.Sub(request.Amount)
    if err := tx.Model(&models.Member{}).Where("id = ?", member.ID).Updates(map[string]interface{}{
        "wallet_balance":   newBalance,
        "total_withdrawal": member.TotalWithdrawal.Add(request.Amount),
    }).Error; err != nil {
        tx.Rollback()
        return nil, fmt.Errorf("failed to debit member wallet: %w", err)
    }

    // Flat withholding placeholder; the gross amount leaves the wallet, the
    // net figure is recorded for the payout operator.
    tds := request.Amount.Mul(decimal.NewFromFloat(s.config.TDSPercent)).
        Div(decimal.NewFromInt(100)).Round(2)
    net := request.Amount.Sub(tds)

    txn := models.WalletTransaction{
        MemberID:     member.ID,
        Type:         models.TxnWithdrawal,
        Amount:       request.Amount,
        BalanceAfter: newBalance,
        Description: fmt.Sprintf("Approved payment request %d (net %s after %s%% TDS)",
            request.ID, net.StringFixed(2), decimal.NewFromFloat(s.config.TDSPercent).String()),
    }
    if err := tx.Create(&txn).Error; err != nil {
        tx.Rollback()
        return nil, fmt.Errorf("failed to create withdrawal transaction: %w", err)
    }

    now := time.Now()
    notes := adminNotes
    if notes != "" {
        notes += " | "
    }
    notes += "Auto-completed on approve."

    if err := tx.Model(&request).Updates(map[string]interface{}{
        "status":         models.PayoutCompleted,
        "approved_by_id": approvedByUserID,
        "approval_date":  now,
        "completed_date": now,
        "transaction_id": uuid.New().String(),
        "admin_notes":    notes,
    }).Error; err != nil {
        tx.Rollback()
        return nil, fmt.Errorf("failed to finalize payment request: %w", err)
    }

    if err := tx.Commit().Error; err != nil {
        return nil, fmt.Errorf("failed to commit payout approval: %w", err)
    }
    return &request, nil
}

// RejectPayout marks a pending request rejected. The wallet is untouched.
func (s *Service) RejectPayout(requestID, rejectedByUserID uint, reason string) (*models.PaymentRequest, error) {
    return s.closePayout(requestID, map[string]interface{}{
        "status":           models.PayoutRejected,
        "approved_by_id":   rejectedByUserID,
        "rejection_reason": reason,
    }, nil)
}

// CancelPayout lets a member withdraw their own pending request.
func (s *Service) CancelPayout(requestID, memberID uint) (*models.PaymentRequest, error) {
    return s.closePayout(requestID, map[string]interface{}{
        "status": models.PayoutCancelled,
    }, &memberID)
}

func (s *Service) closePayout(requestID uint, updates map[string]interface{}, onlyMemberID *uint) (*models.PaymentRequest, error) {
    tx := s.db.Begin()
    defer func() {
        if r := recover(); r != nil {
            tx.Rollback()
        }
    }()
    if err := tx.Error; err != nil {
        return nil, fmt.Errorf("failed to begin payout transaction: %w", err)
    }

    var request models.PaymentRequest
    if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&request, requestID).Error; err != nil {
        tx.Rollback()
        if err == gorm.ErrRecordNotFound {
            return nil, ErrPayoutNotFound
        }
        return nil, err
    }
    if onlyMemberID != nil && request.MemberID != *onlyMemberID {
        tx.Rollback()
        return nil, ErrPayoutNotFound
    }
    if request.Status != models.PayoutPending {
        tx.Rollback()
        return nil, ErrPayoutNotPending
    }

    if err := tx.Model(&request).Updates(updates).Error; err != nil {
        tx.Rollback()
        return nil, fmt.Errorf("failed to update payment request: %w", err)
    }
    if err := tx.Commit().Error; err != nil {
        return nil, fmt.Errorf("failed to commit payout update: %w", err)
    }
    return &request, nil
}
