package mlm

import (
    "fmt"
    "sync/atomic"
    "testing"

    "github.com/shopspring/decimal"
    "gorm.io/gorm/logger"

    "github.com/MrSumitKumar/msk/config"
    "github.com/MrSumitKumar/msk/database"
    "github.com/MrSumitKumar/msk/models"
)

var testDBCounter int64

// newTestService opens a fresh in-memory database per test. The connection
// pool is capped at one so every query sees the same memory database.
func newTestService(t *testing.T) *Service {
    t.Helper()
    n := atomic.AddInt64(&testDBCounter, 1)
    dsn := fmt.Sprintf("file:msk_test_%d?mode=memory&cache=shared", n)

    db, err := database.InitializeWithLogger(dsn, logger.Default.LogMode(logger.Silent))
    if err != nil {
        t.Fatalf("failed to initialize test database: %v", err)
    }
    sqlDB, err := db.DB()
    if err != nil {
        t.Fatalf("failed to access sql.DB: %v", err)
    }
    sqlDB.SetMaxOpenConns(1)
    t.Cleanup(func() { sqlDB.Close() })

    return NewService(db, config.Load())
}

func createUser(t *testing.T, s *Service, username string) *models.User {
    t.Helper()
    user := models.User{
        Username:  username,
        Email:     username + "@example.com",
        Password:  "not-a-real-hash",
        FirstName: username,
    }
    if err := s.db.Create(&user).Error; err != nil {
        t.Fatalf("failed to create user %s: %v", username, err)
    }
    return &user
}

func register(t *testing.T, s *Service, username, sponsorUsername, position string) *models.Member {
    t.Helper()
    user := createUser(t, s, username)
    member, err := s.RegisterMember(user.ID, sponsorUsername, position)
    if err != nil {
        t.Fatalf("failed to register member %s: %v", username, err)
    }
    return member
}

func seedPlan(t *testing.T, s *Service, name string, price, direct, matching float64) *models.Plan {
    t.Helper()
    plan := models.Plan{
        Name:     name,
        Price:    decimal.NewFromFloat(price),
        Direct:   decimal.NewFromFloat(direct),
        Matching: decimal.NewFromFloat(matching),
    }
    if err := s.db.Create(&plan).Error; err != nil {
        t.Fatalf("failed to create plan %s: %v", name, err)
    }
    return &plan
}

func seedLevel(t *testing.T, s *Service, planID, level uint, distributed, resalePct float64) {
    t.Helper()
    row := models.Level{
        PlanID:            planID,
        Level:             level,
        DistributedAmount: decimal.NewFromFloat(distributed),
        ResalePercentage:  decimal.NewFromFloat(resalePct),
    }
    if err := s.db.Create(&row).Error; err != nil {
        t.Fatalf("failed to create level config: %v", err)
    }
}

func buyAndComplete(t *testing.T, s *Service, memberID, planID uint) *SettlementSummary {
    t.Helper()
    purchase, err := s.PurchasePlan(memberID, planID)
    if err != nil {
        t.Fatalf("failed to create purchase: %v", err)
    }
    summary, err := s.CompletePurchase(purchase.ID)
    if err != nil {
        t.Fatalf("failed to complete purchase: %v", err)
    }
    return summary
}

func reloadMember(t *testing.T, s *Service, memberID uint) *models.Member {
    t.Helper()
    var member models.Member
    if err := s.db.First(&member, memberID).Error; err != nil {
        t.Fatalf("failed to reload member %d: %v", memberID, err)
    }
    return &member
}

func countHistory(t *testing.T, s *Service, memberID uint, incomeType string) int64 {
    t.Helper()
    var count int64
    if err := s.db.Model(&models.IncomeHistory{}).
        Where("member_id = ? AND income_type = ?", memberID, incomeType).
        Count(&count).Error; err != nil {
        t.Fatalf("failed to count income history: %v", err)
    }
    return count
}

func assertDecimal(t *testing.T, got decimal.Decimal, want float64, what string) {
    t.Helper()
    if !got.Equal(decimal.NewFromFloat(want)) {
        t.Errorf("%s = %s, want %.2f", what, got.String(), want)
    }
}

// subtreeSize recomputes the true descendant count below a child pointer.
func subtreeSize(t *testing.T, s *Service, rootID *uint) int {
    t.Helper()
    if rootID == nil {
        return 0
    }
    var member models.Member
    if err := s.db.First(&member, *rootID).Error; err != nil {
        t.Fatalf("failed to load member %d: %v", *rootID, err)
    }
    return 1 + subtreeSize(t, s, member.LeftID) + subtreeSize(t, s, member.RightID)
}

// assertTreeInvariant verifies the cached counters against a full recount and
// that exactly one root exists.
func assertTreeInvariant(t *testing.T, s *Service) {
    t.Helper()
    var members []models.Member
    if err := s.db.Find(&members).Error; err != nil {
        t.Fatalf("failed to list members: %v", err)
    }

    roots := 0
    for _, m := range members {
        if m.HeadMemberID == nil {
            roots++
        }
        if got := subtreeSize(t, s, m.LeftID); got != int(m.LeftCount) {
            t.Errorf("member %d left_count = %d, true count %d", m.ID, m.LeftCount, got)
        }
        if got := subtreeSize(t, s, m.RightID); got != int(m.RightCount) {
            t.Errorf("member %d right_count = %d, true count %d", m.ID, m.RightCount, got)
        }
    }
    if roots != 1 {
        t.Errorf("found %d roots, want exactly 1", roots)
    }
}
