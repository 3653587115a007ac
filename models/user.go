package models

import (
    "time"

    "gorm.io/gorm"
)

type User struct {
    ID        uint           `json:"id" gorm:"primaryKey"`
    Username  string         `json:"username" gorm:"uniqueIndex;not null"`
    Email     string         `json:"email" gorm:"uniqueIndex;not null"`
    Phone     string         `json:"phone"`
    Password  string         `json:"-" gorm:"not null"`
    FirstName string         `json:"first_name" gorm:"not null"`
    LastName  string         `json:"last_name"`
    IsActive  bool           `json:"is_active" gorm:"default:true"`
    IsAdmin   bool           `json:"is_admin" gorm:"default:false"`
    CreatedAt time.Time      `json:"created_at"`
    UpdatedAt time.Time      `json:"updated_at"`
    DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

type RegisterRequest struct {
    Username        string `json:"username" validate:"required,min=3,max=30"`
    Email           string `json:"email" validate:"required,email"`
    Phone           string `json:"phone" validate:"omitempty,min=10,max=15"`
    Password        string `json:"password" validate:"required,min=8"`
    FirstName       string `json:"first_name" validate:"required,min=2"`
    LastName        string `json:"last_name"`
    SponsorUsername string `json:"sponsor_username" validate:"omitempty,min=3"`
    Position        string `json:"position" validate:"omitempty,oneof=LEFT RIGHT"`
    AdminCode       string `json:"admin_code,omitempty"` // Optional field for admin registration
}

type LoginRequest struct {
    Username string `json:"username" validate:"required"`
    Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
    Token string `json:"token"`
    User  User   `json:"user"`
}
