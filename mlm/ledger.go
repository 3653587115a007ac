package mlm

import (
    "fmt"
    "log"

    "github.com/shopspring/decimal"

    "github.com/MrSumitKumar/msk/models"
)

// creditMember atomically credits a member's balances, bumps the type-specific
// running total and records one IncomeHistory and one WalletTransaction row.
// A non-positive amount is a silent no-op. Each credit is its own transaction
// so a failure for one ancestor never rolls back already-paid ones.
func (s *Service) creditMember(memberID uint, amount decimal.Decimal, incomeType, description string) error {
    if !amount.IsPositive() {
        return nil
    }

    tx := s.db.Begin()
    defer func() {
        if r := recover(); r != nil {
            tx.Rollback()
        }
    }()
    if err := tx.Error; err != nil {
        return fmt.Errorf("failed to begin credit transaction: %w", err)
    }

    member, err := s.lockMember(tx, memberID)
    if err != nil {
        tx.Rollback()
        return err
    }

    newWalletBalance := member.WalletBalance.Add(amount)
    updates := map[string]interface{}{
        "account_balance": member.AccountBalance.Add(amount),
        "wallet_balance":  newWalletBalance,
        "total_income":    member.TotalIncome.Add(amount),
        "today_income":    member.TodayIncome.Add(amount),
    }
    switch incomeType {
    case models.IncomeDirect:
        updates["direct_income"] = member.DirectIncome.Add(amount)
    case models.IncomeLevel:
        updates["level_income"] = member.LevelIncome.Add(amount)
    case models.IncomeResale:
        updates["resale_income"] = member.ResaleIncome.Add(amount)
    case models.IncomeMatching:
        updates["matching_income"] = member.MatchingIncome.Add(amount)
    }

    if err := tx.Model(&models.Member{}).Where("id = ?", member.ID).Updates(updates).Error; err != nil {
        tx.Rollback()
        return fmt.Errorf("failed to update member balances: %w", err)
    }

    history := models.IncomeHistory{
        MemberID:    member.ID,
        IncomeType:  incomeType,
        Amount:      amount,
        Description: description,
    }
    if err := tx.Create(&history).Error; err != nil {
        tx.Rollback()
        return fmt.Errorf("failed to create income history: %w", err)
    }

    txn := models.WalletTransaction{
        MemberID:     member.ID,
        Type:         models.TxnCredit,
        Amount:       amount,
        BalanceAfter: newWalletBalance,
        Description:  description,
    }
    if err := tx.Create(&txn).Error; err != nil {
        tx.Rollback()
        return fmt.Errorf("failed to create wallet transaction: %w", err)
    }

    if err := tx.Commit().Error; err != nil {
        return fmt.Errorf("failed to commit credit: %w", err)
    }
    return nil
}

// CompanyWallet returns the single pooled company wallet row, creating it if
// the seed has not run yet.
func (s *Service) CompanyWallet() (*models.CompanyWallet, error) {
    var wallet models.CompanyWallet
    if err := s.db.Where(models.CompanyWallet{ID: models.CompanyWalletID}).FirstOrCreate(&wallet).Error; err != nil {
        return nil, fmt.Errorf("failed to load company wallet: %w", err)
    }
    return &wallet, nil
}

// CompanyCredit adds funds to the company pool.
func (s *Service) CompanyCredit(amount decimal.Decimal) error {
    if amount.IsNegative() {
        return ErrInvalidAmount
    }
    if amount.IsZero() {
        return nil
    }
    return s.companyWalletUpdate(func(wallet *models.CompanyWallet) (decimal.Decimal, error) {
        return wallet.Balance.Add(amount), nil
    })
}

// CompanyDebit removes funds from the company pool, refusing to overdraw it.
func (s *Service) CompanyDebit(amount decimal.Decimal) error {
    if amount.IsNegative() {
        return ErrInvalidAmount
    }
    if amount.IsZero() {
        return nil
    }
    return s.companyWalletUpdate(func(wallet *models.CompanyWallet) (decimal.Decimal, error) {
        if amount.GreaterThan(wallet.Balance) {
            return decimal.Zero, ErrInsufficientBalance
        }
        return wallet.Balance.Sub(amount), nil
    })
}

func (s *Service) companyWalletUpdate(apply func(*models.CompanyWallet) (decimal.Decimal, error)) error {
    tx := s.db.Begin()
    defer func() {
        if r := recover(); r != nil {
            tx.Rollback()
        }
    }()
    if err := tx.Error; err != nil {
        return fmt.Errorf("failed to begin company wallet transaction: %w", err)
    }

    var wallet models.CompanyWallet
    if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&wallet, models.CompanyWalletID).Error; err != nil {
        tx.Rollback()
        return fmt.Errorf("failed to lock company wallet: %w", err)
    }

    newBalance, err := apply(&wallet)
    if err != nil {
        tx.Rollback()
        return err
    }

    if err := tx.Model(&wallet).Update("balance", newBalance).Error; err != nil {
        tx.Rollback()
        return fmt.Errorf("failed to update company wallet: %w", err)
    }
    if err := tx.Commit().Error; err != nil {
        return fmt.Errorf("failed to commit company wallet update: %w", err)
    }
    return nil
}

// fundFromPool debits the company pool for a commission already credited to a
// member. A shortfall is an operational problem, not a user-facing one: it is
// logged and the settlement chain continues.
func (s *Service) fundFromPool(amount decimal.Decimal, source string) {
    if err := s.CompanyDebit(amount); err != nil {
        log.Printf("Company wallet debit of %s failed for %s: %v", amount.StringFixed(2), source, err)
    }
}

// ResetTodayIncome zeroes every member's today_income aggregate. Meant to be
// invoked by an external daily scheduler.
func (s *Service) ResetTodayIncome() error {
    return s.db.Model(&models.Member{}).
        Where("today_income <> ?", decimal.Zero).
        Update("today_income", decimal.Zero).Error
}

// activateMember flips a member to ACTIVE after its first completed purchase.
func (s *Service) activateMember(memberID uint) error {
    return s.db.Model(&models.Member{}).
        Where("id = ? AND status <> ?", memberID, models.StatusActive).
        Update("status", models.StatusActive).Error
}
