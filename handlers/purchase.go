package handlers

import (
    "encoding/json"
    "fmt"
    "net/http"
    "strconv"

    "github.com/gorilla/mux"

    "github.com/MrSumitKumar/msk/middleware"
    "github.com/MrSumitKumar/msk/models"
    "github.com/MrSumitKumar/msk/utils"
)

func (h *Handlers) ListPlans(w http.ResponseWriter, r *http.Request) {
    var plans []models.Plan
    if err := h.db.Order("price ASC").Find(&plans).Error; err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to fetch plans", err.Error())
        return
    }
    sendJSON(w, http.StatusOK, plans)
}

func (h *Handlers) PurchasePlan(w http.ResponseWriter, r *http.Request) {
    claims := middleware.GetUserFromContext(r)
    if claims == nil {
        sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
        return
    }

    var req models.PurchaseRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
        return
    }
    if err := utils.ValidateStruct(req); err != nil {
        sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
        return
    }

    member, err := h.mlm.MemberByUserID(claims.UserID)
    if err != nil {
        sendCoreError(w, err)
        return
    }

    purchase, err := h.mlm.PurchasePlan(member.ID, req.PlanID)
    if err != nil {
        sendCoreError(w, err)
        return
    }

    h.logAudit(&claims.UserID, "CREATE", "PURCHASE",
        fmt.Sprintf("Purchased plan %d (pending)", req.PlanID), r.RemoteAddr, r.UserAgent())

    sendJSON(w, http.StatusCreated, map[string]interface{}{
        "message":  "Purchase created, awaiting payment confirmation",
        "purchase": purchase,
    })
}

func (h *Handlers) ListMyPurchases(w http.ResponseWriter, r *http.Request) {
    claims := middleware.GetUserFromContext(r)
    if claims == nil {
        sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
        return
    }

    member, err := h.mlm.MemberByUserID(claims.UserID)
    if err != nil {
        sendCoreError(w, err)
        return
    }

    var purchases []models.MemberPlan
    if err := h.db.Preload("Plan").
        Where("member_id = ?", member.ID).
        Order("created_at DESC").
        Find(&purchases).Error; err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to fetch purchases", err.Error())
        return
    }
    sendJSON(w, http.StatusOK, purchases)
}

// CompletePurchase is invoked by the payment confirmation flow (admin-only
// here) and triggers commission settlement exactly once.
func (h *Handlers) CompletePurchase(w http.ResponseWriter, r *http.Request) {
    claims := middleware.GetUserFromContext(r)
    if claims == nil {
        sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
        return
    }

    purchaseID, err := strconv.Atoi(mux.Vars(r)["id"])
    if err != nil || purchaseID <= 0 {
        sendError(w, http.StatusBadRequest, "Invalid purchase id", nil)
        return
    }

    summary, err := h.mlm.CompletePurchase(uint(purchaseID))
    if err != nil {
        sendCoreError(w, err)
        return
    }

    h.logAudit(&claims.UserID, "UPDATE", "PURCHASE",
        fmt.Sprintf("Marked purchase %d completed", purchaseID), r.RemoteAddr, r.UserAgent())

    sendJSON(w, http.StatusOK, map[string]interface{}{
        "message":    "Purchase completed and commissions settled",
        "settlement": summary,
    })
}
