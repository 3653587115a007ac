package mlm

import (
    "testing"

    "github.com/MrSumitKumar/msk/models"
)

func TestGetDirectTeam(t *testing.T) {
    s := newTestService(t)

    root := register(t, s, "root", "", "")
    register(t, s, "a", "root", models.PositionLeft)
    register(t, s, "b", "root", models.PositionRight)
    // Sponsored by root but placed deeper in the tree.
    register(t, s, "c", "root", models.PositionLeft)

    team, err := s.GetDirectTeam(root.ID)
    if err != nil {
        t.Fatalf("GetDirectTeam failed: %v", err)
    }
    if len(team) != 3 {
        t.Fatalf("direct team size = %d, want 3", len(team))
    }
    for _, m := range team {
        if m.User.Username == "" {
            t.Errorf("member %d returned without user preloaded", m.ID)
        }
    }
}

func TestGetDownlineCollectsWholeSide(t *testing.T) {
    s := newTestService(t)

    root := register(t, s, "root", "", "")
    register(t, s, "a", "root", models.PositionLeft)
    register(t, s, "b", "root", models.PositionRight)
    register(t, s, "c", "a", models.PositionLeft)
    register(t, s, "d", "a", models.PositionRight)

    left, err := s.GetDownline(root.ID, models.PositionLeft)
    if err != nil {
        t.Fatalf("GetDownline failed: %v", err)
    }
    if len(left) != 3 {
        t.Errorf("left downline size = %d, want 3", len(left))
    }

    right, err := s.GetDownline(root.ID, models.PositionRight)
    if err != nil {
        t.Fatalf("GetDownline failed: %v", err)
    }
    if len(right) != 1 {
        t.Errorf("right downline size = %d, want 1", len(right))
    }

    if _, err := s.GetDownline(root.ID, "UP"); err == nil {
        t.Error("expected error for invalid side")
    }
}

func TestCountActiveFrom(t *testing.T) {
    s := newTestService(t)

    root := register(t, s, "root", "", "")
    a := register(t, s, "a", "root", models.PositionLeft)
    c := register(t, s, "c", "a", models.PositionLeft)
    register(t, s, "d", "a", models.PositionRight)

    plan := seedPlan(t, s, "Starter", 499, 0, 0)
    buyAndComplete(t, s, a.ID, plan.ID)
    buyAndComplete(t, s, c.ID, plan.ID)

    root = reloadMember(t, s, root.ID)
    active, err := s.countActiveFrom(root.LeftID)
    if err != nil {
        t.Fatalf("countActiveFrom failed: %v", err)
    }
    // a and c purchased, d never did.
    if active != 2 {
        t.Errorf("active count = %d, want 2", active)
    }

    none, err := s.countActiveFrom(nil)
    if err != nil {
        t.Fatalf("countActiveFrom(nil) failed: %v", err)
    }
    if none != 0 {
        t.Errorf("empty subtree count = %d, want 0", none)
    }
}
