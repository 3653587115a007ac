package mlm

import (
    "errors"
    "testing"

    "github.com/MrSumitKumar/msk/models"
)

func TestFirstMemberBecomesRoot(t *testing.T) {
    s := newTestService(t)

    root := register(t, s, "root", "", "")
    if root.HeadMemberID != nil {
        t.Errorf("root head = %v, want nil", *root.HeadMemberID)
    }
    if root.SponsorID != nil {
        t.Errorf("root sponsor = %v, want nil", *root.SponsorID)
    }
    if root.Position != nil {
        t.Errorf("root position = %q, want nil", *root.Position)
    }
}

func TestRegisterIsIdempotentPerUser(t *testing.T) {
    s := newTestService(t)

    root := register(t, s, "root", "", "")
    again, err := s.RegisterMember(root.UserID, "", "")
    if err != nil {
        t.Fatalf("second register failed: %v", err)
    }
    if again.ID != root.ID {
        t.Errorf("second register created member %d, want existing %d", again.ID, root.ID)
    }

    var count int64
    s.db.Model(&models.Member{}).Count(&count)
    if count != 1 {
        t.Errorf("member count = %d, want 1", count)
    }
}

func TestExplicitSidePlacement(t *testing.T) {
    s := newTestService(t)

    root := register(t, s, "root", "", "")
    b := register(t, s, "b", "root", models.PositionLeft)
    c := register(t, s, "c", "root", models.PositionRight)

    if b.HeadMemberID == nil || *b.HeadMemberID != root.ID {
        t.Errorf("b head = %v, want root %d", b.HeadMemberID, root.ID)
    }
    if b.Position == nil || *b.Position != models.PositionLeft {
        t.Errorf("b position = %v, want LEFT", b.Position)
    }
    if c.HeadMemberID == nil || *c.HeadMemberID != root.ID {
        t.Errorf("c head = %v, want root %d", c.HeadMemberID, root.ID)
    }
    if c.Position == nil || *c.Position != models.PositionRight {
        t.Errorf("c position = %v, want RIGHT", c.Position)
    }

    root = reloadMember(t, s, root.ID)
    if root.LeftCount != 1 || root.RightCount != 1 {
        t.Errorf("root counts = %d/%d, want 1/1", root.LeftCount, root.RightCount)
    }
    if root.LeftID == nil || *root.LeftID != b.ID {
        t.Errorf("root left pointer = %v, want %d", root.LeftID, b.ID)
    }
    if root.RightID == nil || *root.RightID != c.ID {
        t.Errorf("root right pointer = %v, want %d", root.RightID, c.ID)
    }
    assertTreeInvariant(t, s)
}

func TestAutoPlacementTieBreaksLeft(t *testing.T) {
    s := newTestService(t)

    root := register(t, s, "root", "", "")
    b := register(t, s, "b", "root", "")
    if b.Position == nil || *b.Position != models.PositionLeft {
        t.Errorf("first auto placement position = %v, want LEFT", b.Position)
    }

    // Left now outweighs right, so the next auto placement goes right.
    c := register(t, s, "c", "root", "")
    if c.Position == nil || *c.Position != models.PositionRight {
        t.Errorf("second auto placement position = %v, want RIGHT", c.Position)
    }

    root = reloadMember(t, s, root.ID)
    if root.LeftCount != 1 || root.RightCount != 1 {
        t.Errorf("root counts = %d/%d, want 1/1", root.LeftCount, root.RightCount)
    }
}

func TestPreferredSideDescendsSameSideOnly(t *testing.T) {
    s := newTestService(t)

    root := register(t, s, "root", "", "")
    b := register(t, s, "b", "root", models.PositionLeft)

    // Root's left is taken, so a second LEFT request under root must land
    // on b's left, never on root's free right slot.
    c := register(t, s, "c", "root", models.PositionLeft)
    if c.HeadMemberID == nil || *c.HeadMemberID != b.ID {
        t.Fatalf("c head = %v, want b %d", c.HeadMemberID, b.ID)
    }
    if c.Position == nil || *c.Position != models.PositionLeft {
        t.Errorf("c position = %v, want LEFT", c.Position)
    }

    root = reloadMember(t, s, root.ID)
    if root.LeftCount != 2 {
        t.Errorf("root left_count = %d, want 2", root.LeftCount)
    }
    if root.RightCount != 0 {
        t.Errorf("root right_count = %d, want 0", root.RightCount)
    }
    b = reloadMember(t, s, b.ID)
    if b.LeftCount != 1 {
        t.Errorf("b left_count = %d, want 1", b.LeftCount)
    }
    assertTreeInvariant(t, s)
}

func TestAutoPlacementKeepsTreeBalanced(t *testing.T) {
    s := newTestService(t)

    root := register(t, s, "root", "", "")
    names := []string{"m01", "m02", "m03", "m04", "m05", "m06", "m07",
        "m08", "m09", "m10", "m11", "m12", "m13", "m14"}
    for _, name := range names {
        register(t, s, name, "root", "")
        fresh := reloadMember(t, s, root.ID)
        diff := int(fresh.LeftCount) - int(fresh.RightCount)
        if diff < -1 || diff > 1 {
            t.Fatalf("after %s root counts %d/%d diverged beyond 1", name, fresh.LeftCount, fresh.RightCount)
        }
    }

    root = reloadMember(t, s, root.ID)
    if root.LeftCount != 7 || root.RightCount != 7 {
        t.Errorf("root counts = %d/%d, want 7/7", root.LeftCount, root.RightCount)
    }
    assertTreeInvariant(t, s)
}

func TestSelfPlacementRejected(t *testing.T) {
    s := newTestService(t)

    root := register(t, s, "root", "", "")
    if _, _, err := s.Place(root.ID, root.ID, ""); !errors.Is(err, ErrSelfPlacement) {
        t.Errorf("self placement err = %v, want ErrSelfPlacement", err)
    }
}

func TestUnknownSponsorRejected(t *testing.T) {
    s := newTestService(t)

    register(t, s, "root", "", "")
    user := createUser(t, s, "orphan")
    if _, err := s.RegisterMember(user.ID, "nobody", ""); !errors.Is(err, ErrInvalidSponsor) {
        t.Errorf("register err = %v, want ErrInvalidSponsor", err)
    }
}

func TestInvalidPositionRejected(t *testing.T) {
    s := newTestService(t)

    register(t, s, "root", "", "")
    user := createUser(t, s, "sideways")
    if _, err := s.RegisterMember(user.ID, "root", "MIDDLE"); err == nil {
        t.Error("expected error for position MIDDLE")
    }
}

// TestLostSlotRace simulates two placements that discovered the same free
// slot: the second attach must fail with ErrSlotOccupied and a fresh Place
// must succeed at a different slot.
func TestLostSlotRace(t *testing.T) {
    s := newTestService(t)

    root := register(t, s, "root", "", "")
    u1 := createUser(t, s, "racer1")
    u2 := createUser(t, s, "racer2")
    m1 := models.Member{UserID: u1.ID}
    m2 := models.Member{UserID: u2.ID}
    if err := s.db.Create(&m1).Error; err != nil {
        t.Fatalf("failed to create member: %v", err)
    }
    if err := s.db.Create(&m2).Error; err != nil {
        t.Fatalf("failed to create member: %v", err)
    }

    // Both readers see root's left slot free.
    head, side, err := s.findPlacement(root, models.PositionLeft)
    if err != nil {
        t.Fatalf("findPlacement failed: %v", err)
    }
    if head.ID != root.ID || side != models.PositionLeft {
        t.Fatalf("found slot (%d, %s), want (%d, LEFT)", head.ID, side, root.ID)
    }

    if err := s.attach(root.ID, head.ID, side, m1.ID); err != nil {
        t.Fatalf("first attach failed: %v", err)
    }
    if err := s.attach(root.ID, head.ID, side, m2.ID); !errors.Is(err, ErrSlotOccupied) {
        t.Fatalf("second attach err = %v, want ErrSlotOccupied", err)
    }

    // A retry with a fresh search lands below the winner.
    placedHead, placedSide, err := s.Place(root.ID, m2.ID, models.PositionLeft)
    if err != nil {
        t.Fatalf("retry placement failed: %v", err)
    }
    if placedHead.ID != m1.ID || placedSide != models.PositionLeft {
        t.Errorf("retry landed at (%d, %s), want (%d, LEFT)", placedHead.ID, placedSide, m1.ID)
    }
    assertTreeInvariant(t, s)
}

func TestCountersMatchRecursiveRecount(t *testing.T) {
    s := newTestService(t)

    register(t, s, "root", "", "")
    register(t, s, "a", "root", models.PositionLeft)
    register(t, s, "b", "root", models.PositionRight)
    register(t, s, "c", "a", models.PositionLeft)
    register(t, s, "d", "a", models.PositionRight)
    register(t, s, "e", "c", "")
    register(t, s, "f", "b", models.PositionRight)

    assertTreeInvariant(t, s)
}
