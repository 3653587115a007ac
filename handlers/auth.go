package handlers

import (
    "encoding/json"
    "errors"
    "log"
    "net/http"

    "gorm.io/gorm"

    "github.com/MrSumitKumar/msk/mlm"
    "github.com/MrSumitKumar/msk/models"
    "github.com/MrSumitKumar/msk/utils"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
    var req models.RegisterRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
        return
    }

    if err := utils.ValidateStruct(req); err != nil {
        sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
        return
    }
    if req.Phone != "" && !utils.ValidatePhone(req.Phone) {
        sendError(w, http.StatusBadRequest, "Invalid phone number", nil)
        return
    }

    // Check if user already exists
    var existingUser models.User
    if err := h.db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existingUser).Error; err == nil {
        sendError(w, http.StatusConflict, "User already exists", nil)
        return
    }

    // Resolve the sponsor before creating anything so a bad referral code
    // fails the whole registration.
    if req.SponsorUsername != "" {
        if _, err := h.mlm.MemberByUsername(req.SponsorUsername); err != nil {
            if errors.Is(err, mlm.ErrMemberNotFound) {
                sendError(w, http.StatusBadRequest, "Sponsor not found", nil)
                return
            }
            sendError(w, http.StatusInternalServerError, "Failed to resolve sponsor", err.Error())
            return
        }
    }

    hashedPassword, err := utils.HashPassword(req.Password)
    if err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to hash password", nil)
        return
    }

    isAdmin := false
    if req.AdminCode != "" {
        if req.AdminCode != h.config.AdminCode {
            sendError(w, http.StatusBadRequest, "Invalid admin code", nil)
            return
        }
        isAdmin = true
        log.Printf("Admin user registered with admin code: %s", req.Username)
    }

    user := models.User{
        Username:  req.Username,
        Email:     req.Email,
        Phone:     req.Phone,
        Password:  hashedPassword,
        FirstName: req.FirstName,
        LastName:  req.LastName,
        IsActive:  true,
        IsAdmin:   isAdmin,
    }
    if err := h.db.Create(&user).Error; err != nil {
        log.Printf("Failed to create user %s: %v", req.Username, err)
        sendError(w, http.StatusInternalServerError, "Failed to create user", nil)
        return
    }

    // Every registration gets a network profile placed in the tree.
    member, err := h.mlm.RegisterMember(user.ID, req.SponsorUsername, req.Position)
    if err != nil {
        log.Printf("Failed to place member for user %s: %v", req.Username, err)
        h.db.Delete(&user)
        sendCoreError(w, err)
        return
    }

    h.logAudit(&user.ID, "CREATE", "USER", "User registered", r.RemoteAddr, r.UserAgent())

    user.Password = ""
    sendJSON(w, http.StatusCreated, map[string]interface{}{
        "message": "User registered successfully",
        "user":    user,
        "member":  member,
    })
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
    var req models.LoginRequest
    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
        return
    }

    if err := utils.ValidateStruct(req); err != nil {
        sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
        return
    }

    var user models.User
    if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
        if err == gorm.ErrRecordNotFound {
            sendError(w, http.StatusUnauthorized, "Invalid credentials", nil)
            return
        }
        sendError(w, http.StatusInternalServerError, "Database error", nil)
        return
    }

    if !user.IsActive {
        sendError(w, http.StatusForbidden, "Account is disabled", nil)
        return
    }

    if !utils.CheckPasswordHash(req.Password, user.Password) {
        sendError(w, http.StatusUnauthorized, "Invalid credentials", nil)
        return
    }

    token, err := utils.GenerateToken(user.ID, user.Username, user.IsAdmin)
    if err != nil {
        sendError(w, http.StatusInternalServerError, "Failed to generate token", nil)
        return
    }

    h.logAudit(&user.ID, "LOGIN", "USER", "User logged in", r.RemoteAddr, r.UserAgent())

    user.Password = ""
    sendJSON(w, http.StatusOK, models.LoginResponse{
        Token: token,
        User:  user,
    })
}
