package mlm

import (
    "errors"
    "testing"

    "github.com/shopspring/decimal"

    "github.com/MrSumitKumar/msk/models"
)

func TestCreditMemberZeroAmountIsNoOp(t *testing.T) {
    s := newTestService(t)
    m := register(t, s, "root", "", "")

    if err := s.creditMember(m.ID, decimal.Zero, models.IncomeDirect, "zero"); err != nil {
        t.Fatalf("zero credit errored: %v", err)
    }
    if err := s.creditMember(m.ID, decimal.NewFromFloat(-10), models.IncomeDirect, "negative"); err != nil {
        t.Fatalf("negative credit errored: %v", err)
    }

    m = reloadMember(t, s, m.ID)
    assertDecimal(t, m.WalletBalance, 0, "wallet balance")

    var history int64
    s.db.Model(&models.IncomeHistory{}).Where("member_id = ?", m.ID).Count(&history)
    if history != 0 {
        t.Errorf("income history rows = %d, want 0", history)
    }
    var txns int64
    s.db.Model(&models.WalletTransaction{}).Where("member_id = ?", m.ID).Count(&txns)
    if txns != 0 {
        t.Errorf("wallet transaction rows = %d, want 0", txns)
    }
}

func TestCreditMemberUpdatesAllAggregates(t *testing.T) {
    s := newTestService(t)
    m := register(t, s, "root", "", "")

    if err := s.creditMember(m.ID, decimal.NewFromFloat(25.50), models.IncomeLevel, "level payout"); err != nil {
        t.Fatalf("credit failed: %v", err)
    }

    m = reloadMember(t, s, m.ID)
    assertDecimal(t, m.WalletBalance, 25.50, "wallet balance")
    assertDecimal(t, m.AccountBalance, 25.50, "account balance")
    assertDecimal(t, m.TotalIncome, 25.50, "total income")
    assertDecimal(t, m.TodayIncome, 25.50, "today income")
    assertDecimal(t, m.LevelIncome, 25.50, "level income")
    assertDecimal(t, m.DirectIncome, 0, "direct income untouched")

    var txn models.WalletTransaction
    if err := s.db.Where("member_id = ?", m.ID).First(&txn).Error; err != nil {
        t.Fatalf("wallet transaction not recorded: %v", err)
    }
    if txn.Type != models.TxnCredit {
        t.Errorf("transaction type = %s, want credit", txn.Type)
    }
    assertDecimal(t, txn.BalanceAfter, 25.50, "transaction balance snapshot")
}

func TestCompanyDebitRefusesOverdraw(t *testing.T) {
    s := newTestService(t)

    if err := s.CompanyCredit(decimal.NewFromFloat(100)); err != nil {
        t.Fatalf("company credit failed: %v", err)
    }
    if err := s.CompanyDebit(decimal.NewFromFloat(250)); !errors.Is(err, ErrInsufficientBalance) {
        t.Fatalf("overdraw err = %v, want ErrInsufficientBalance", err)
    }

    wallet, err := s.CompanyWallet()
    if err != nil {
        t.Fatalf("failed to load company wallet: %v", err)
    }
    assertDecimal(t, wallet.Balance, 100, "pool balance after refused debit")

    if err := s.CompanyDebit(decimal.NewFromFloat(40)); err != nil {
        t.Fatalf("valid debit failed: %v", err)
    }
    wallet, _ = s.CompanyWallet()
    assertDecimal(t, wallet.Balance, 60, "pool balance after debit")
}

func TestCompanyAmountsMustNotBeNegative(t *testing.T) {
    s := newTestService(t)

    if err := s.CompanyCredit(decimal.NewFromFloat(-5)); !errors.Is(err, ErrInvalidAmount) {
        t.Errorf("negative credit err = %v, want ErrInvalidAmount", err)
    }
    if err := s.CompanyDebit(decimal.NewFromFloat(-5)); !errors.Is(err, ErrInvalidAmount) {
        t.Errorf("negative debit err = %v, want ErrInvalidAmount", err)
    }
}

func TestResetTodayIncome(t *testing.T) {
    s := newTestService(t)
    m := register(t, s, "root", "", "")
    fundWallet(t, s, m.ID, 75)

    m = reloadMember(t, s, m.ID)
    assertDecimal(t, m.TodayIncome, 75, "today income before reset")

    if err := s.ResetTodayIncome(); err != nil {
        t.Fatalf("reset failed: %v", err)
    }

    m = reloadMember(t, s, m.ID)
    assertDecimal(t, m.TodayIncome, 0, "today income after reset")
    assertDecimal(t, m.TotalIncome, 75, "total income survives reset")
    assertDecimal(t, m.WalletBalance, 75, "wallet survives reset")
}

func TestDistributeGlobalPool(t *testing.T) {
    s := newTestService(t)

    register(t, s, "root", "", "")
    a := register(t, s, "a", "root", models.PositionLeft)
    b := register(t, s, "b", "root", models.PositionRight)
    plan := seedPlan(t, s, "Starter", 499, 0, 0)
    buyAndComplete(t, s, a.ID, plan.ID)
    buyAndComplete(t, s, b.ID, plan.ID)

    if err := s.CompanyCredit(decimal.NewFromFloat(2)); err != nil {
        t.Fatalf("failed to top up pool: %v", err)
    }
    // Pool is 2*499 + 2 = 1000; a 2% run distributes 20 across both
    // active members.
    distributed, err := s.DistributeGlobalPool()
    if err != nil {
        t.Fatalf("distribution failed: %v", err)
    }
    assertDecimal(t, distributed, 20, "distributed total")

    a = reloadMember(t, s, a.ID)
    b = reloadMember(t, s, b.ID)
    assertDecimal(t, a.WalletBalance, 10, "first winner share")
    assertDecimal(t, b.WalletBalance, 10, "second winner share")
    if n := countHistory(t, s, a.ID, models.IncomeReward); n != 1 {
        t.Errorf("reward history rows = %d, want 1", n)
    }

    wallet, err := s.CompanyWallet()
    if err != nil {
        t.Fatalf("failed to load company wallet: %v", err)
    }
    assertDecimal(t, wallet.Balance, 980, "pool balance after distribution")
}

func TestDistributeGlobalPoolEmptyPool(t *testing.T) {
    s := newTestService(t)
    register(t, s, "root", "", "")

    distributed, err := s.DistributeGlobalPool()
    if err != nil {
        t.Fatalf("distribution failed: %v", err)
    }
    if !distributed.IsZero() {
        t.Errorf("distributed = %s, want 0", distributed.String())
    }
}
