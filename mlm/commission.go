package mlm

import (
    "fmt"
    "log"

    "github.com/shopspring/decimal"
    "gorm.io/gorm"

    "github.com/MrSumitKumar/msk/models"
)

// maxLevelDepth bounds the level and resale income walks.
const maxLevelDepth = 10

// SettlementSummary reports what one completed purchase distributed.
type SettlementSummary struct {
    DirectPaid      decimal.Decimal `json:"direct_paid"`
    LevelPaidTotal  decimal.Decimal `json:"level_paid_total"`
    ResalePaidTotal decimal.Decimal `json:"resale_paid_total"`
}

// PurchasePlan creates a Pending plan purchase for a member. Completion is a
// separate step driven by the payment confirmation flow.
func (s *Service) PurchasePlan(memberID, planID uint) (*models.MemberPlan, error) {
    if _, err := s.GetMember(memberID); err != nil {
        return nil, err
    }
    var plan models.Plan
    if err := s.db.First(&plan, planID).Error; err != nil {
        if err == gorm.ErrRecordNotFound {
            return nil, ErrPlanNotFound
        }
        return nil, err
    }

    purchase := models.MemberPlan{
        MemberID: memberID,
        PlanID:   planID,
        Status:   models.PurchasePending,
    }
    if err := s.db.Create(&purchase).Error; err != nil {
        return nil, fmt.Errorf("failed to create purchase: %w", err)
    }
    purchase.Plan = plan
    return &purchase, nil
}

// CompletePurchase transitions a purchase Pending -> Completed exactly once
// and settles all commissions. Calling it again for the same purchase is a
// no-op returning an empty summary, which keeps duplicate payment callbacks
// safe. Pool shortfalls are logged and never block a member credit.
func (s *Service) CompletePurchase(memberPlanID uint) (*SettlementSummary, error) {
    // Compare-and-set guard: only the caller that wins this update settles.
    res := s.db.Model(&models.MemberPlan{}).
        Where("id = ? AND status = ?", memberPlanID, models.PurchasePending).
        Update("status", models.PurchaseCompleted)
    if res.Error != nil {
        return nil, fmt.Errorf("failed to complete purchase: %w", res.Error)
    }
    if res.RowsAffected == 0 {
        var count int64
        if err := s.db.Model(&models.MemberPlan{}).Where("id = ?", memberPlanID).Count(&count).Error; err != nil {
            return nil, err
        }
        if count == 0 {
            return nil, ErrPurchaseNotFound
        }
        // Already settled (or failed): idempotent no-op.
        return &SettlementSummary{
            DirectPaid:      decimal.Zero,
            LevelPaidTotal:  decimal.Zero,
            ResalePaidTotal: decimal.Zero,
        }, nil
    }

    var purchase models.MemberPlan
    if err := s.db.Preload("Plan").Preload("Member").Preload("Member.User").
        First(&purchase, memberPlanID).Error; err != nil {
        return nil, fmt.Errorf("failed to load purchase %d: %w", memberPlanID, err)
    }

    // The plan price funds the pool the commissions are paid from.
    if err := s.CompanyCredit(purchase.Plan.Price); err != nil {
        log.Printf("Company wallet credit failed for purchase %d: %v", purchase.ID, err)
    }

    // A purchase activates the buyer; matching pair counts only see ACTIVE
    // members, so this must happen before the matching walk.
    if err := s.activateMember(purchase.MemberID); err != nil {
        log.Printf("Failed to activate member %d: %v", purchase.MemberID, err)
    }

    summary := &SettlementSummary{
        DirectPaid:      decimal.Zero,
        LevelPaidTotal:  decimal.Zero,
        ResalePaidTotal: decimal.Zero,
    }
    buyer := purchase.Member.User.Username

    // 1) Direct income to the sponsor.
    if purchase.Member.SponsorID != nil && purchase.Plan.Direct.IsPositive() {
        desc := fmt.Sprintf("Direct income from purchase of %s for plan %s", buyer, purchase.Plan.Name)
        if err := s.creditMember(*purchase.Member.SponsorID, purchase.Plan.Direct, models.IncomeDirect, desc); err != nil {
            log.Printf("Direct income credit failed for purchase %d: %v", purchase.ID, err)
        } else {
            summary.DirectPaid = purchase.Plan.Direct
            s.fundFromPool(purchase.Plan.Direct, "direct income")
        }
    }

    // 2) Level income up the head chain.
    currentID := purchase.Member.HeadMemberID
    for depth := 1; currentID != nil && depth <= maxLevelDepth; depth++ {
        var upline models.Member
        if err := s.db.First(&upline, *currentID).Error; err != nil {
            log.Printf("Level walk stopped at depth %d for purchase %d: %v", depth, purchase.ID, err)
            break
        }

        conf, err := s.levelConfig(purchase.PlanID, uint(depth))
        if err != nil {
            log.Printf("Level config lookup failed at depth %d for purchase %d: %v", depth, purchase.ID, err)
        } else if conf != nil && conf.DistributedAmount.IsPositive() {
            desc := fmt.Sprintf("Level %d income from purchase by %s", depth, buyer)
            if err := s.creditMember(upline.ID, conf.DistributedAmount, models.IncomeLevel, desc); err != nil {
                log.Printf("Level income credit failed at depth %d for purchase %d: %v", depth, purchase.ID, err)
            } else {
                summary.LevelPaidTotal = summary.LevelPaidTotal.Add(conf.DistributedAmount)
                s.fundFromPool(conf.DistributedAmount, "level income")
            }
        }

        currentID = upline.HeadMemberID
    }

    // 3) Resale income: same walk, percentage of price per configured depth.
    currentID = purchase.Member.HeadMemberID
    for depth := 1; currentID != nil && depth <= maxLevelDepth; depth++ {
        var upline models.Member
        if err := s.db.First(&upline, *currentID).Error; err != nil {
            log.Printf("Resale walk stopped at depth %d for purchase %d: %v", depth, purchase.ID, err)
            break
        }

        conf, err := s.levelConfig(purchase.PlanID, uint(depth))
        if err != nil {
            log.Printf("Level config lookup failed at depth %d for purchase %d: %v", depth, purchase.ID, err)
        } else if conf != nil && conf.ResalePercentage.IsPositive() {
            amount := purchase.Plan.Price.Mul(conf.ResalePercentage).
                Div(decimal.NewFromInt(100)).Round(2)
            desc := fmt.Sprintf("Resale level %d income from purchase by %s", depth, buyer)
            if err := s.creditMember(upline.ID, amount, models.IncomeResale, desc); err != nil {
                log.Printf("Resale income credit failed at depth %d for purchase %d: %v", depth, purchase.ID, err)
            } else {
                summary.ResalePaidTotal = summary.ResalePaidTotal.Add(amount)
                s.fundFromPool(amount, "resale income")
            }
        }

        currentID = upline.HeadMemberID
    }

    // 4) Matching income has its own walk and termination rules.
    if err := s.updateMatching(&purchase); err != nil {
        log.Printf("Matching income update failed for purchase %d: %v", purchase.ID, err)
    }

    return summary, nil
}

// levelConfig returns the schedule row for (plan, depth), or nil when that
// depth is not configured.
func (s *Service) levelConfig(planID, depth uint) (*models.Level, error) {
    var conf models.Level
    err := s.db.Where("plan_id = ? AND level = ?", planID, depth).First(&conf).Error
    if err == gorm.ErrRecordNotFound {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &conf, nil
}
