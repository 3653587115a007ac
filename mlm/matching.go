package mlm

import (
    "fmt"
    "log"

    "github.com/shopspring/decimal"
    "gorm.io/gorm"

    "github.com/MrSumitKumar/msk/models"
)

// updateMatching walks the buyer's tree ancestry and pays matching income for
// every new left/right pair of ACTIVE members an ancestor gained. The walk
// stops at the tree root, which is the system sentinel and is never paid.
// Pair counters are monotonic; a shrunken recount never credits or decrements.
func (s *Service) updateMatching(purchase *models.MemberPlan) error {
    buyer := purchase.Member.User.Username
    parentID := purchase.Member.HeadMemberID

    for parentID != nil {
        var parent models.Member
        if err := s.db.First(&parent, *parentID).Error; err != nil {
            return fmt.Errorf("failed to load ancestor %d: %w", *parentID, err)
        }

        if parent.HeadMemberID == nil {
            // Reached the root sentinel.
            break
        }

        activeLeft, err := s.countActiveFrom(parent.LeftID)
        if err != nil {
            return err
        }
        activeRight, err := s.countActiveFrom(parent.RightID)
        if err != nil {
            return err
        }

        currentPairs := min(activeLeft, activeRight)
        newPairs := currentPairs - int(parent.AllMatchingPairs)
        if newPairs > 0 {
            unit := s.matchingUnitAmount(&parent, purchase)
            total := unit.Mul(decimal.NewFromInt(int64(newPairs)))
            desc := fmt.Sprintf("Matching income for %d new pair(s) from purchase by %s", newPairs, buyer)
            if err := s.creditMember(parent.ID, total, models.IncomeMatching, desc); err != nil {
                log.Printf("Matching income credit failed for member %d: %v", parent.ID, err)
            } else {
                if total.IsPositive() {
                    s.fundFromPool(total, "matching income")
                }
                if err := s.db.Model(&models.Member{}).Where("id = ?", parent.ID).Updates(map[string]interface{}{
                    "all_matching_pairs": gorm.Expr("all_matching_pairs + ?", newPairs),
                    "matching_pairs":     gorm.Expr("matching_pairs + ?", newPairs),
                }).Error; err != nil {
                    log.Printf("Failed to update pair counters for member %d: %v", parent.ID, err)
                } else if err := s.updateRankIfNeeded(parent.ID); err != nil {
                    log.Printf("Rank update failed for member %d: %v", parent.ID, err)
                }
            }
        }

        parentID = parent.HeadMemberID
    }
    return nil
}

// matchingUnitAmount is the per-pair amount for one ancestor: the matching
// amount of its most recent purchased plan, falling back to the triggering
// purchase's plan when the ancestor never bought one.
func (s *Service) matchingUnitAmount(parent *models.Member, purchase *models.MemberPlan) decimal.Decimal {
    var last models.MemberPlan
    err := s.db.Preload("Plan").
        Where("member_id = ?", parent.ID).
        Order("id DESC").
        First(&last).Error
    if err != nil {
        return purchase.Plan.Matching
    }
    return last.Plan.Matching
}

// updateRankIfNeeded promotes a member to the highest rank whose pair
// threshold its accumulated matching pairs now satisfy. Ranks never demote.
func (s *Service) updateRankIfNeeded(memberID uint) error {
    var member models.Member
    if err := s.db.First(&member, memberID).Error; err != nil {
        return err
    }

    var rank models.RankAndRewards
    err := s.db.Where("pairs <= ?", member.MatchingPairs).
        Order("rank_no DESC").
        First(&rank).Error
    if err == gorm.ErrRecordNotFound {
        return nil
    }
    if err != nil {
        return err
    }

    if rank.RankNo > member.RankNo {
        return s.db.Model(&models.Member{}).
            Where("id = ?", member.ID).
            Update("rank_no", rank.RankNo).Error
    }
    return nil
}
