package handlers

import (
    "encoding/json"
    "fmt"
    "net/http"
    "strconv"

    "github.com/gorilla/mux"
    "github.com/shopspring/decimal"

    "github.com/MrSumitKumar/msk/middleware"
    "github.com/MrSumitKumar/msk/models"
    "github.com/MrSumitKumar/msk/utils"
)

func (h *Handlers) CreatePlan(w http.ResponseWriter, r *http.Request) {
    claims := middleware.GetUserFromContext(r)
    if claims == nil {
        sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
        return
    }

    var req models.PlanRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
        return
    }
    if err := utils.ValidateStruct(req); err != nil {
        sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
        return
    }

    plan := models.Plan{
        Name:     utils.SanitizeString(req.Name),
        Price:    decimal.NewFromFloat(req.Price).Round(2),
        Direct:   decimal.NewFromFloat(req.Direct).Round(2),
        Matching: decimal.NewFromFloat(req.Matching).Round(2),
    }
    if err := h.db.Create(&plan).Error; err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to create plan", err.Error())
        return
    }

    h.logAudit(&claims.UserID, "CREATE", "PLAN", "Created plan "+plan.Name, r.RemoteAddr, r.UserAgent())
    sendJSON(w, http.StatusCreated, plan)
}

// SetPlanLevels replaces the commission schedule rows for one plan.
func (h *Handlers) SetPlanLevels(w http.ResponseWriter, r *http.Request) {
    claims := middleware.GetUserFromContext(r)
    if claims == nil {
        sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
        return
    }

    planID, err := strconv.Atoi(mux.Vars(r)["id"])
    if err != nil || planID <= 0 {
        sendError(w, http.StatusBadRequest, "Invalid plan id", nil)
        return
    }

    var plan models.Plan
    if err := h.db.First(&plan, planID).Error; err != nil {
        sendError(w, http.StatusNotFound, "Plan not found", nil)
        return
    }

    var reqs []models.LevelRequest
    if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
        sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
        return
    }
    for _, req := range reqs {
        if err := utils.ValidateStruct(req); err != nil {
            sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
            return
        }
    }

    tx := h.db.Begin()
    defer func() {
        if r := recover(); r != nil {
            tx.Rollback()
        }
    }()

    if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.Level{}).Error; err != nil {
        tx.Rollback()
        sendError(w, http.StatusInternalServerError, "Failed to clear plan levels", err.Error())
        return
    }
    levels := make([]models.Level, 0, len(reqs))
    for _, req := range reqs {
        levels = append(levels, models.Level{
            PlanID:            plan.ID,
            Level:             req.Level,
            DistributedAmount: decimal.NewFromFloat(req.DistributedAmount).Round(2),
            ResalePercentage:  decimal.NewFromFloat(req.ResalePercentage).Round(2),
        })
    }
    if len(levels) > 0 {
        if err := tx.Create(&levels).Error; err != nil {
            tx.Rollback()
            sendError(w, http.StatusInternalServerError, "Failed to create plan levels", err.Error())
            return
        }
    }
    if err := tx.Commit().Error; err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to commit plan levels", err.Error())
        return
    }

    h.logAudit(&claims.UserID, "UPDATE", "PLAN",
        fmt.Sprintf("Set %d level rows for plan %s", len(levels), plan.Name), r.RemoteAddr, r.UserAgent())
    sendJSON(w, http.StatusOK, levels)
}

func (h *Handlers) GetCompanyWallet(w http.ResponseWriter, r *http.Request) {
    wallet, err := h.mlm.CompanyWallet()
    if err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to fetch company wallet", err.Error())
        return
    }
    sendJSON(w, http.StatusOK, wallet)
}

func (h *Handlers) RechargeCompanyWallet(w http.ResponseWriter, r *http.Request) {
    claims := middleware.GetUserFromContext(r)
    if claims == nil {
        sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
        return
    }

    var req struct {
        Amount float64 `json:"amount" validate:"required,gt=0"`
    }
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
        return
    }
    if err := utils.ValidateStruct(req); err != nil {
        sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
        return
    }

    amount := decimal.NewFromFloat(req.Amount).Round(2)
    if err := h.mlm.CompanyCredit(amount); err != nil {
        sendCoreError(w, err)
        return
    }

    h.logAudit(&claims.UserID, "UPDATE", "COMPANY_WALLET",
        fmt.Sprintf("Recharged company wallet by %s", amount.StringFixed(2)), r.RemoteAddr, r.UserAgent())

    wallet, err := h.mlm.CompanyWallet()
    if err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to fetch company wallet", err.Error())
        return
    }
    sendJSON(w, http.StatusOK, map[string]interface{}{
        "message": "Company wallet recharged",
        "wallet":  wallet,
    })
}

// DistributeGlobalPool is the endpoint a scheduler collaborator hits monthly.
func (h *Handlers) DistributeGlobalPool(w http.ResponseWriter, r *http.Request) {
    claims := middleware.GetUserFromContext(r)
    if claims == nil {
        sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
        return
    }

    distributed, err := h.mlm.DistributeGlobalPool()
    if err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to distribute global pool", err.Error())
        return
    }

    h.logAudit(&claims.UserID, "UPDATE", "COMPANY_WALLET",
        "Distributed global pool "+distributed.StringFixed(2), r.RemoteAddr, r.UserAgent())
    sendJSON(w, http.StatusOK, map[string]interface{}{
        "message":     "Global pool distributed",
        "distributed": distributed,
    })
}

// ResetTodayIncome is the endpoint a scheduler collaborator hits at midnight.
func (h *Handlers) ResetTodayIncome(w http.ResponseWriter, r *http.Request) {
    claims := middleware.GetUserFromContext(r)
    if claims == nil {
        sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
        return
    }

    if err := h.mlm.ResetTodayIncome(); err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to reset today income", err.Error())
        return
    }

    h.logAudit(&claims.UserID, "UPDATE", "MEMBER", "Reset today income for all members", r.RemoteAddr, r.UserAgent())
    sendJSON(w, http.StatusOK, map[string]interface{}{
        "message": "Today income reset",
    })
}

func (h *Handlers) GetAllMembers(w http.ResponseWriter, r *http.Request) {
    limit, offset := paginate(r, 20)

    var members []models.Member
    if err := h.db.Preload("User").
        Order("created_at DESC").
        Limit(limit).
        Offset(offset).
        Find(&members).Error; err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to fetch members", err.Error())
        return
    }
    sendJSON(w, http.StatusOK, members)
}

func (h *Handlers) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
    limit, offset := paginate(r, 50)

    var auditLogs []models.AuditLog
    if err := h.db.Preload("User").
        Order("created_at DESC").
        Limit(limit).
        Offset(offset).
        Find(&auditLogs).Error; err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to fetch audit logs", err.Error())
        return
    }
    sendJSON(w, http.StatusOK, auditLogs)
}
