package mlm

import (
    "fmt"

    "gorm.io/gorm"

    "github.com/MrSumitKumar/msk/config"
    "github.com/MrSumitKumar/msk/models"
)

// Service is the referral-network and commission-settlement core. It owns no
// transport: HTTP handlers, payment confirmation flows and schedulers call
// into it.
type Service struct {
    db     *gorm.DB
    config *config.Config
}

func NewService(db *gorm.DB, cfg *config.Config) *Service {
    return &Service{
        db:     db,
        config: cfg,
    }
}

// lockMember loads a member row under an exclusive row lock inside tx.
func (s *Service) lockMember(tx *gorm.DB, memberID uint) (*models.Member, error) {
    var member models.Member
    if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&member, memberID).Error; err != nil {
        if err == gorm.ErrRecordNotFound {
            return nil, ErrMemberNotFound
        }
        return nil, fmt.Errorf("failed to lock member %d: %w", memberID, err)
    }
    return &member, nil
}

// GetMember returns a member with its user loaded.
func (s *Service) GetMember(memberID uint) (*models.Member, error) {
    var member models.Member
    if err := s.db.Preload("User").First(&member, memberID).Error; err != nil {
        if err == gorm.ErrRecordNotFound {
            return nil, ErrMemberNotFound
        }
        return nil, err
    }
    return &member, nil
}

// MemberByUserID returns the network profile owned by a user.
func (s *Service) MemberByUserID(userID uint) (*models.Member, error) {
    var member models.Member
    if err := s.db.Preload("User").Where("user_id = ?", userID).First(&member).Error; err != nil {
        if err == gorm.ErrRecordNotFound {
            return nil, ErrMemberNotFound
        }
        return nil, err
    }
    return &member, nil
}

// MemberByUsername resolves a member through its user's username.
func (s *Service) MemberByUsername(username string) (*models.Member, error) {
    var member models.Member
    if err := s.db.Preload("User").
        Joins("JOIN users ON users.id = members.user_id").
        Where("users.username = ?", username).
        First(&member).Error; err != nil {
        if err == gorm.ErrRecordNotFound {
            return nil, ErrMemberNotFound
        }
        return nil, err
    }
    return &member, nil
}

// Root returns the single member with no head, or ErrMemberNotFound if the
// tree is still empty.
func (s *Service) Root() (*models.Member, error) {
    var root models.Member
    if err := s.db.Where("head_member_id IS NULL").First(&root).Error; err != nil {
        if err == gorm.ErrRecordNotFound {
            return nil, ErrMemberNotFound
        }
        return nil, err
    }
    return &root, nil
}

// GetIncomeHistory lists a member's commission credits, newest first.
func (s *Service) GetIncomeHistory(memberID uint, limit, offset int) ([]models.IncomeHistory, error) {
    var history []models.IncomeHistory
    err := s.db.Where("member_id = ?", memberID).
        Order("created_at DESC").
        Limit(limit).
        Offset(offset).
        Find(&history).Error
    return history, err
}

// GetWalletTransactions lists a member's ledger rows, newest first.
func (s *Service) GetWalletTransactions(memberID uint, limit, offset int) ([]models.WalletTransaction, error) {
    var transactions []models.WalletTransaction
    err := s.db.Where("member_id = ?", memberID).
        Order("created_at DESC").
        Limit(limit).
        Offset(offset).
        Find(&transactions).Error
    return transactions, err
}
