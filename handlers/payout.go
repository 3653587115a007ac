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

func (h *Handlers) RequestPayout(w http.ResponseWriter, r *http.Request) {
    claims := middleware.GetUserFromContext(r)
    if claims == nil {
        sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
        return
    }

    var req models.PayoutRequestInput
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
        return
    }
    if err := utils.ValidateStruct(req); err != nil {
        sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
        return
    }
    if req.IFSCCode != "" && !utils.ValidateIFSC(req.IFSCCode) {
        sendError(w, http.StatusBadRequest, "Invalid IFSC code", nil)
        return
    }
    if req.UPIID != "" && !utils.ValidateUPI(req.UPIID) {
        sendError(w, http.StatusBadRequest, "Invalid UPI id", nil)
        return
    }

    member, err := h.mlm.MemberByUserID(claims.UserID)
    if err != nil {
        sendCoreError(w, err)
        return
    }

    request, err := h.mlm.RequestPayout(member.ID, &req)
    if err != nil {
        sendCoreError(w, err)
        return
    }

    h.logAudit(&claims.UserID, "CREATE", "PAYOUT",
        fmt.Sprintf("Payout request of %.2f", req.Amount), r.RemoteAddr, r.UserAgent())

    sendJSON(w, http.StatusCreated, map[string]interface{}{
        "message": "Payout request created",
        "request": request,
    })
}

func (h *Handlers) ListMyPayouts(w http.ResponseWriter, r *http.Request) {
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

    var requests []models.PaymentRequest
    if err := h.db.Where("member_id = ?", member.ID).
        Order("created_at DESC").
        Find(&requests).Error; err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to fetch payout requests", err.Error())
        return
    }
    sendJSON(w, http.StatusOK, requests)
}

func (h *Handlers) CancelPayout(w http.ResponseWriter, r *http.Request) {
    claims := middleware.GetUserFromContext(r)
    if claims == nil {
        sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
        return
    }

    requestID, err := strconv.Atoi(mux.Vars(r)["id"])
    if err != nil || requestID <= 0 {
        sendError(w, http.StatusBadRequest, "Invalid request id", nil)
        return
    }

    member, err := h.mlm.MemberByUserID(claims.UserID)
    if err != nil {
        sendCoreError(w, err)
        return
    }

    request, err := h.mlm.CancelPayout(uint(requestID), member.ID)
    if err != nil {
        sendCoreError(w, err)
        return
    }

    h.logAudit(&claims.UserID, "UPDATE", "PAYOUT",
        fmt.Sprintf("Cancelled payout request %d", requestID), r.RemoteAddr, r.UserAgent())

    sendJSON(w, http.StatusOK, map[string]interface{}{
        "message": "Payout request cancelled",
        "request": request,
    })
}

func (h *Handlers) GetPendingPayouts(w http.ResponseWriter, r *http.Request) {
    limit, offset := paginate(r, 50)

    var requests []models.PaymentRequest
    if err := h.db.Where("status = ?", models.PayoutPending).
        Order("created_at ASC").
        Limit(limit).
        Offset(offset).
        Find(&requests).Error; err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to fetch pending payouts", err.Error())
        return
    }
    sendJSON(w, http.StatusOK, requests)
}

// DecidePayout approves or rejects a pending payout request. Approval debits
// the member wallet and finalizes the request in one step.
func (h *Handlers) DecidePayout(w http.ResponseWriter, r *http.Request) {
    claims := middleware.GetUserFromContext(r)
    if claims == nil {
        sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
        return
    }

    var req models.PayoutDecisionRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
        return
    }
    if err := utils.ValidateStruct(req); err != nil {
        sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
        return
    }

    var request *models.PaymentRequest
    var err error
    if req.Status == models.PayoutApproved {
        request, err = h.mlm.ApprovePayout(req.RequestID, claims.UserID, req.AdminNotes)
    } else {
        request, err = h.mlm.RejectPayout(req.RequestID, claims.UserID, req.RejectionReason)
    }
    if err != nil {
        sendCoreError(w, err)
        return
    }

    h.logAudit(&claims.UserID, "UPDATE", "PAYOUT",
        fmt.Sprintf("Payout request %d %s", req.RequestID, req.Status), r.RemoteAddr, r.UserAgent())

    sendJSON(w, http.StatusOK, map[string]interface{}{
        "message": "Payout request " + req.Status,
        "request": request,
    })
}
