package mlm

import (
    "fmt"

    "github.com/MrSumitKumar/msk/models"
)

// GetDirectTeam returns all members directly sponsored by the given member.
func (s *Service) GetDirectTeam(memberID uint) ([]models.Member, error) {
    var team []models.Member
    err := s.db.Preload("User").Where("sponsor_id = ?", memberID).Find(&team).Error
    return team, err
}

// GetDownline returns the whole subtree hanging off one side of a member,
// breadth-first. Side must be LEFT or RIGHT.
func (s *Service) GetDownline(memberID uint, side string) ([]models.Member, error) {
    member, err := s.GetMember(memberID)
    if err != nil {
        return nil, err
    }

    startID := member.LeftID
    if side == models.PositionRight {
        startID = member.RightID
    } else if side != models.PositionLeft {
        return nil, fmt.Errorf("invalid side %q", side)
    }
    if startID == nil {
        return []models.Member{}, nil
    }

    team := []models.Member{}
    frontier := []uint{*startID}
    for len(frontier) > 0 {
        var batch []models.Member
        if err := s.db.Preload("User").Where("id IN ?", frontier).Find(&batch).Error; err != nil {
            return nil, err
        }
        next := make([]uint, 0, len(batch)*2)
        for _, m := range batch {
            team = append(team, m)
            if m.LeftID != nil {
                next = append(next, *m.LeftID)
            }
            if m.RightID != nil {
                next = append(next, *m.RightID)
            }
        }
        frontier = next
    }
    return team, nil
}

// countActiveFrom counts ACTIVE members in the subtree rooted at rootID
// (inclusive). A nil root is an empty subtree. This is a full recount from
// current tree state; matching income relies on it being authoritative.
func (s *Service) countActiveFrom(rootID *uint) (int, error) {
    if rootID == nil {
        return 0, nil
    }
    count := 0
    frontier := []uint{*rootID}
    for len(frontier) > 0 {
        var batch []models.Member
        if err := s.db.Select("id", "left_id", "right_id", "status").
            Where("id IN ?", frontier).Find(&batch).Error; err != nil {
            return 0, err
        }
        next := make([]uint, 0, len(batch)*2)
        for _, m := range batch {
            if m.Status == models.StatusActive {
                count++
            }
            if m.LeftID != nil {
                next = append(next, *m.LeftID)
            }
            if m.RightID != nil {
                next = append(next, *m.RightID)
            }
        }
        frontier = next
    }
    return count, nil
}
