package mlm

import "errors"

var (
    // Placement errors
    ErrInvalidSponsor = errors.New("sponsor does not resolve to an existing member")
    ErrSlotOccupied   = errors.New("placement slot already occupied")
    ErrSelfPlacement  = errors.New("a member cannot be placed under itself")
    ErrTreeInvariant  = errors.New("no placement slot found: tree side unexpectedly full")

    // Ledger errors
    ErrInsufficientBalance = errors.New("insufficient balance")
    ErrInvalidAmount       = errors.New("amount must be greater than zero")

    // Lookup / workflow errors
    ErrMemberNotFound   = errors.New("member not found")
    ErrPlanNotFound     = errors.New("plan not found")
    ErrPurchaseNotFound = errors.New("purchase not found")
    ErrPayoutNotFound   = errors.New("payment request not found")
    ErrPayoutNotPending = errors.New("payment request is not pending")
)
