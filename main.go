package main

import (
    "log"
    "net/http"

    "github.com/MrSumitKumar/msk/config"
    "github.com/MrSumitKumar/msk/database"
    "github.com/MrSumitKumar/msk/handlers"
    "github.com/MrSumitKumar/msk/middleware"
    "github.com/MrSumitKumar/msk/mlm"
    "github.com/MrSumitKumar/msk/utils"

    "github.com/gorilla/mux"
    "github.com/joho/godotenv"
)

func main() {
    // Load environment variables
    if err := godotenv.Load(); err != nil {
        log.Println("No .env file found")
    }

    // Initialize config
    cfg := config.Load()

    // Validate configuration
    config.ValidateConfig(cfg)

    // Initialize JWT
    if err := utils.InitializeJWT(cfg.JWTSecret); err != nil {
        log.Fatal("Failed to initialize JWT:", err)
    }

    // Initialize database
    db, err := database.Initialize(cfg.DatabaseURL)
    if err != nil {
        log.Fatal("Failed to initialize database:", err)
    }

    // Initialize the network/commission core and handlers
    core := mlm.NewService(db, cfg)
    h := handlers.NewHandlers(db, cfg, core)

    // Initialize router
    r := mux.NewRouter()

    // Apply global middleware
    r.Use(middleware.CORS)
    r.Use(middleware.RateLimit)

    // Public routes
    r.HandleFunc("/api/register", h.Register).Methods("POST")
    r.HandleFunc("/api/login", h.Login).Methods("POST")
    r.HandleFunc("/api/health", h.HealthCheck).Methods("GET")
    r.HandleFunc("/api/plans", h.ListPlans).Methods("GET")

    // Protected routes
    protected := r.PathPrefix("/api").Subrouter()
    protected.Use(middleware.JWTAuth)

    // Member routes
    protected.HandleFunc("/member/me", h.GetProfile).Methods("GET")
    protected.HandleFunc("/member/direct-team", h.GetDirectTeam).Methods("GET")
    protected.HandleFunc("/member/downline", h.GetDownline).Methods("GET")
    protected.HandleFunc("/member/income-history", h.GetIncomeHistory).Methods("GET")
    protected.HandleFunc("/member/wallet-transactions", h.GetWalletTransactions).Methods("GET")

    // Purchase routes
    protected.HandleFunc("/purchases", h.PurchasePlan).Methods("POST")
    protected.HandleFunc("/purchases", h.ListMyPurchases).Methods("GET")

    // Payout routes
    protected.HandleFunc("/payouts", h.RequestPayout).Methods("POST")
    protected.HandleFunc("/payouts", h.ListMyPayouts).Methods("GET")
    protected.HandleFunc("/payouts/{id}/cancel", h.CancelPayout).Methods("POST")

    // Admin routes
    adminRoutes := protected.PathPrefix("/admin").Subrouter()
    adminRoutes.Use(middleware.AdminAuth)
    adminRoutes.HandleFunc("/plans", h.CreatePlan).Methods("POST")
    adminRoutes.HandleFunc("/plans/{id}/levels", h.SetPlanLevels).Methods("PUT")
    adminRoutes.HandleFunc("/purchases/{id}/complete", h.CompletePurchase).Methods("POST")
    adminRoutes.HandleFunc("/payouts/pending", h.GetPendingPayouts).Methods("GET")
    adminRoutes.HandleFunc("/payouts/decide", h.DecidePayout).Methods("POST")
    adminRoutes.HandleFunc("/company-wallet", h.GetCompanyWallet).Methods("GET")
    adminRoutes.HandleFunc("/company-wallet/recharge", h.RechargeCompanyWallet).Methods("POST")
    adminRoutes.HandleFunc("/company-wallet/distribute-pool", h.DistributeGlobalPool).Methods("POST")
    adminRoutes.HandleFunc("/members/reset-today-income", h.ResetTodayIncome).Methods("POST")
    adminRoutes.HandleFunc("/members", h.GetAllMembers).Methods("GET")
    adminRoutes.HandleFunc("/audit-logs", h.GetAuditLogs).Methods("GET")

    port := cfg.Port
    if port == "" {
        port = "8080"
    }

    log.Printf("Server starting on port %s", port)
    log.Printf("Environment: %s", cfg.Environment)
    log.Printf("Database: %s", cfg.DatabaseURL)
    log.Fatal(http.ListenAndServe(":"+port, r))
}
