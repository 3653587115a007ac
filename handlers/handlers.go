package handlers

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"
    "time"

    "gorm.io/gorm"

    "github.com/MrSumitKumar/msk/config"
    "github.com/MrSumitKumar/msk/mlm"
    "github.com/MrSumitKumar/msk/models"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
    Status    int         `json:"status"`
    Error     string      `json:"error"`
    Details   interface{} `json:"details,omitempty"`
    Timestamp time.Time   `json:"timestamp"`
}

// sendError sends a standardized error response
func sendError(w http.ResponseWriter, status int, err string, details interface{}) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(ErrorResponse{
        Status:    status,
        Error:     err,
        Details:   details,
        Timestamp: time.Now(),
    })
}

func sendJSON(w http.ResponseWriter, status int, payload interface{}) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    json.NewEncoder(w).Encode(payload)
}

type Handlers struct {
    db     *gorm.DB
    config *config.Config
    mlm    *mlm.Service
}

func NewHandlers(db *gorm.DB, cfg *config.Config, svc *mlm.Service) *Handlers {
    return &Handlers{
        db:     db,
        config: cfg,
        mlm:    svc,
    }
}

func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
    sendJSON(w, http.StatusOK, map[string]interface{}{
        "status":    "healthy",
        "timestamp": time.Now(),
        "service":   "MSK",
        "version":   "1.0.0",
    })
}

func (h *Handlers) logAudit(userID *uint, action, resource, details, ipAddress, userAgent string) {
    audit := models.AuditLog{
        UserID:    userID,
        Action:    action,
        Resource:  resource,
        Details:   details,
        IPAddress: ipAddress,
        UserAgent: userAgent,
    }
    h.db.Create(&audit)
}

// sendCoreError maps core service errors to HTTP responses.
func sendCoreError(w http.ResponseWriter, err error) {
    switch {
    case errors.Is(err, mlm.ErrInvalidSponsor):
        sendError(w, http.StatusBadRequest, "Sponsor not found", nil)
    case errors.Is(err, mlm.ErrSelfPlacement):
        sendError(w, http.StatusBadRequest, "A member cannot be placed under itself", nil)
    case errors.Is(err, mlm.ErrSlotOccupied):
        sendError(w, http.StatusConflict, "Placement slot already occupied, please retry", nil)
    case errors.Is(err, mlm.ErrInsufficientBalance):
        sendError(w, http.StatusForbidden, "Insufficient balance", nil)
    case errors.Is(err, mlm.ErrInvalidAmount):
        sendError(w, http.StatusBadRequest, "Amount must be greater than zero", nil)
    case errors.Is(err, mlm.ErrMemberNotFound),
        errors.Is(err, mlm.ErrPlanNotFound),
        errors.Is(err, mlm.ErrPurchaseNotFound),
        errors.Is(err, mlm.ErrPayoutNotFound):
        sendError(w, http.StatusNotFound, err.Error(), nil)
    case errors.Is(err, mlm.ErrPayoutNotPending):
        sendError(w, http.StatusConflict, "Payment request is not pending", nil)
    case errors.Is(err, mlm.ErrTreeInvariant):
        sendError(w, http.StatusInternalServerError, "Network tree corruption detected, contact support", nil)
    default:
        sendError(w, http.StatusInternalServerError, "Internal server error", err.Error())
    }
}

func paginate(r *http.Request, defaultLimit int) (limit, offset int) {
    page, _ := strconv.Atoi(r.URL.Query().Get("page"))
    if page <= 0 {
        page = 1
    }
    limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
    if limit <= 0 || limit > 100 {
        limit = defaultLimit
    }
    return limit, (page - 1) * limit
}
