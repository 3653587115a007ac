package mlm

import (
    "errors"
    "fmt"
    "log"

    "gorm.io/gorm"

    "github.com/MrSumitKumar/msk/models"
)

// placementRetries bounds how often a lost slot race is retried before the
// conflict is surfaced to the caller.
const placementRetries = 3

// RegisterMember creates the network profile for a user and places it in the
// binary tree. The first profile ever created becomes the root. When no
// sponsor username is given the root sponsors the new member. Position may be
// LEFT, RIGHT or empty for balanced auto-placement.
func (s *Service) RegisterMember(userID uint, sponsorUsername, position string) (*models.Member, error) {
    if position != "" && position != models.PositionLeft && position != models.PositionRight {
        return nil, fmt.Errorf("invalid position %q", position)
    }

    var member models.Member
    if err := s.db.Where(models.Member{UserID: userID}).FirstOrCreate(&member).Error; err != nil {
        return nil, fmt.Errorf("failed to create member profile: %w", err)
    }

    // Already placed (or already the root): nothing to do.
    if member.HeadMemberID != nil {
        return &member, nil
    }

    root, err := s.rootExcluding(member.ID)
    if err != nil {
        return nil, err
    }
    if root == nil {
        // First ever registration: no sponsor, no head, no side.
        return &member, nil
    }

    var sponsor *models.Member
    if sponsorUsername == "" {
        sponsor = root
    } else {
        sponsor, err = s.MemberByUsername(sponsorUsername)
        if err != nil {
            if errors.Is(err, ErrMemberNotFound) {
                return nil, ErrInvalidSponsor
            }
            return nil, err
        }
    }

    for attempt := 1; ; attempt++ {
        _, _, err = s.Place(sponsor.ID, member.ID, position)
        if err == nil {
            break
        }
        if errors.Is(err, ErrSlotOccupied) && attempt < placementRetries {
            log.Printf("Placement race lost for member %d under sponsor %d (attempt %d), retrying", member.ID, sponsor.ID, attempt)
            continue
        }
        return nil, err
    }

    return s.GetMember(member.ID)
}

// Place performs one placement attempt of newMember under sponsor. The BFS
// read phase runs unlocked; the discovered slot is re-validated under row
// locks and ErrSlotOccupied is returned if it filled in between.
func (s *Service) Place(sponsorID, newMemberID uint, position string) (*models.Member, string, error) {
    if sponsorID == newMemberID {
        return nil, "", ErrSelfPlacement
    }

    var sponsor models.Member
    if err := s.db.First(&sponsor, sponsorID).Error; err != nil {
        if err == gorm.ErrRecordNotFound {
            return nil, "", ErrInvalidSponsor
        }
        return nil, "", err
    }

    head, side, err := s.findPlacement(&sponsor, position)
    if err != nil {
        return nil, "", err
    }

    if head.ID == newMemberID {
        return nil, "", ErrSelfPlacement
    }

    if err := s.attach(sponsorID, head.ID, side, newMemberID); err != nil {
        return nil, "", err
    }
    return head, side, nil
}

// findPlacement walks the chosen side of the sponsor's subtree breadth-first,
// descending only along that same side, until a node with a free slot on it
// is found. Counts are advisory here; the slot is re-validated under lock.
func (s *Service) findPlacement(sponsor *models.Member, position string) (*models.Member, string, error) {
    side := position
    if side == "" {
        if sponsor.LeftCount <= sponsor.RightCount {
            side = models.PositionLeft
        } else {
            side = models.PositionRight
        }
    }

    startID := sponsor.LeftID
    if side == models.PositionRight {
        startID = sponsor.RightID
    }
    if startID == nil {
        return sponsor, side, nil
    }

    queue := []uint{*startID}
    for len(queue) > 0 {
        id := queue[0]
        queue = queue[1:]

        var current models.Member
        if err := s.db.First(&current, id).Error; err != nil {
            return nil, "", fmt.Errorf("failed to load member %d during placement search: %w", id, err)
        }

        childID := current.LeftID
        if side == models.PositionRight {
            childID = current.RightID
        }
        if childID == nil {
            return &current, side, nil
        }
        queue = append(queue, *childID)
    }

    // Unreachable for a binary tree; indicates corrupted pointers.
    return nil, "", ErrTreeInvariant
}

// attach links newMember as the side-child of head inside one transaction:
// sponsor and head rows are locked, the slot is re-validated, pointers are
// written and every ancestor counter up to the root is incremented.
func (s *Service) attach(sponsorID, headID uint, side string, newMemberID uint) error {
    tx := s.db.Begin()
    defer func() {
        if r := recover(); r != nil {
            tx.Rollback()
        }
    }()
    if err := tx.Error; err != nil {
        return fmt.Errorf("failed to begin placement transaction: %w", err)
    }

    sponsorLocked, err := s.lockMember(tx, sponsorID)
    if err != nil {
        tx.Rollback()
        return err
    }
    var headLocked *models.Member
    if headID == sponsorID {
        headLocked = sponsorLocked
    } else {
        headLocked, err = s.lockMember(tx, headID)
        if err != nil {
            tx.Rollback()
            return err
        }
    }

    // Re-validate the slot now that the head is locked.
    if side == models.PositionLeft && headLocked.LeftID != nil {
        tx.Rollback()
        return ErrSlotOccupied
    }
    if side == models.PositionRight && headLocked.RightID != nil {
        tx.Rollback()
        return ErrSlotOccupied
    }

    if err := tx.Model(&models.Member{}).Where("id = ?", newMemberID).Updates(map[string]interface{}{
        "sponsor_id":     sponsorLocked.ID,
        "head_member_id": headLocked.ID,
        "position":       side,
    }).Error; err != nil {
        tx.Rollback()
        return fmt.Errorf("failed to save member relations: %w", err)
    }

    pointerColumn := "left_id"
    if side == models.PositionRight {
        pointerColumn = "right_id"
    }
    if err := tx.Model(&models.Member{}).Where("id = ?", headLocked.ID).Update(pointerColumn, newMemberID).Error; err != nil {
        tx.Rollback()
        return fmt.Errorf("failed to attach member to tree: %w", err)
    }

    // Reflect the new pointer so the counter walk below sees it.
    if side == models.PositionLeft {
        headLocked.LeftID = &newMemberID
    } else {
        headLocked.RightID = &newMemberID
    }

    // Walk head -> root incrementing the counter of whichever side leads
    // toward the inserted node.
    current := headLocked
    childID := newMemberID
    for {
        counterColumn := ""
        if current.LeftID != nil && *current.LeftID == childID {
            counterColumn = "left_count"
        } else if current.RightID != nil && *current.RightID == childID {
            counterColumn = "right_count"
        }
        if counterColumn == "" {
            tx.Rollback()
            return ErrTreeInvariant
        }
        if err := tx.Model(&models.Member{}).Where("id = ?", current.ID).
            Update(counterColumn, gorm.Expr(counterColumn+" + 1")).Error; err != nil {
            tx.Rollback()
            return fmt.Errorf("failed to update ancestor counter: %w", err)
        }
        childID = current.ID
        if current.HeadMemberID == nil {
            break
        }
        var parent models.Member
        if err := tx.First(&parent, *current.HeadMemberID).Error; err != nil {
            tx.Rollback()
            return fmt.Errorf("failed to load ancestor %d: %w", *current.HeadMemberID, err)
        }
        current = &parent
    }

    if err := tx.Commit().Error; err != nil {
        return fmt.Errorf("failed to commit placement: %w", err)
    }
    return nil
}

// rootExcluding returns the tree root ignoring the given (just-created,
// not yet placed) member, or nil when the tree is empty.
func (s *Service) rootExcluding(memberID uint) (*models.Member, error) {
    var root models.Member
    err := s.db.Where("head_member_id IS NULL AND id <> ?", memberID).First(&root).Error
    if err == gorm.ErrRecordNotFound {
        return nil, nil
    }
    if err != nil {
        return nil, err
    }
    return &root, nil
}
