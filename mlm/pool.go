package mlm

import (
    "log"

    "github.com/shopspring/decimal"

    "github.com/MrSumitKumar/msk/models"
)

// globalPoolShare is the fraction of the company pool distributed per run.
var globalPoolShare = decimal.NewFromFloat(0.02)

// globalPoolWinners caps how many top earners share the pool.
const globalPoolWinners = 10

// DistributeGlobalPool shares a slice of the company pool among the top
// active earners as reward income. Intended to be invoked by an external
// monthly scheduler; the core owns no scheduling.
func (s *Service) DistributeGlobalPool() (decimal.Decimal, error) {
    wallet, err := s.CompanyWallet()
    if err != nil {
        return decimal.Zero, err
    }

    pool := wallet.Balance.Mul(globalPoolShare).Round(2)
    if !pool.IsPositive() {
        return decimal.Zero, nil
    }

    var top []models.Member
    if err := s.db.Where("status = ?", models.StatusActive).
        Order("total_income DESC").
        Limit(globalPoolWinners).
        Find(&top).Error; err != nil {
        return decimal.Zero, err
    }
    if len(top) == 0 {
        return decimal.Zero, nil
    }

    share := pool.Div(decimal.NewFromInt(int64(len(top)))).Round(2)
    distributed := decimal.Zero
    for _, m := range top {
        if err := s.creditMember(m.ID, share, models.IncomeReward, "Global pool monthly reward"); err != nil {
            log.Printf("Global pool credit failed for member %d: %v", m.ID, err)
            continue
        }
        distributed = distributed.Add(share)
    }

    s.fundFromPool(distributed, "global pool")
    return distributed, nil
}
