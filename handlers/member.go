package handlers

import (
    "net/http"
    "strings"

    "github.com/MrSumitKumar/msk/middleware"
    "github.com/MrSumitKumar/msk/models"
)

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
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
    sendJSON(w, http.StatusOK, member)
}

func (h *Handlers) GetDirectTeam(w http.ResponseWriter, r *http.Request) {
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

    team, err := h.mlm.GetDirectTeam(member.ID)
    if err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to fetch direct team", err.Error())
        return
    }
    sendJSON(w, http.StatusOK, team)
}

func (h *Handlers) GetDownline(w http.ResponseWriter, r *http.Request) {
    claims := middleware.GetUserFromContext(r)
    if claims == nil {
        sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
        return
    }

    side := strings.ToUpper(r.URL.Query().Get("side"))
    if side != models.PositionLeft && side != models.PositionRight {
        sendError(w, http.StatusBadRequest, "side must be LEFT or RIGHT", nil)
        return
    }

    member, err := h.mlm.MemberByUserID(claims.UserID)
    if err != nil {
        sendCoreError(w, err)
        return
    }

    team, err := h.mlm.GetDownline(member.ID, side)
    if err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to fetch downline", err.Error())
        return
    }
    sendJSON(w, http.StatusOK, map[string]interface{}{
        "side":    side,
        "count":   len(team),
        "members": team,
    })
}

func (h *Handlers) GetIncomeHistory(w http.ResponseWriter, r *http.Request) {
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

    limit, offset := paginate(r, 20)
    history, err := h.mlm.GetIncomeHistory(member.ID, limit, offset)
    if err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to fetch income history", err.Error())
        return
    }
    sendJSON(w, http.StatusOK, history)
}

func (h *Handlers) GetWalletTransactions(w http.ResponseWriter, r *http.Request) {
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

    limit, offset := paginate(r, 20)
    transactions, err := h.mlm.GetWalletTransactions(member.ID, limit, offset)
    if err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to fetch wallet transactions", err.Error())
        return
    }
    sendJSON(w, http.StatusOK, transactions)
}
