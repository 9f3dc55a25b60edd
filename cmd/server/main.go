package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carevault/practice-server/internal/cache"
	"github.com/carevault/practice-server/internal/config"
	"github.com/carevault/practice-server/internal/database"
	"github.com/carevault/practice-server/internal/handlers"
	"github.com/carevault/practice-server/internal/middleware"
	"github.com/carevault/practice-server/internal/repository"
	"github.com/carevault/practice-server/internal/services"
	"github.com/carevault/practice-server/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	log.Info().Msg("Starting practice server")

	// Connect to database
	dbConfig := database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: cfg.Database.LogLevel,
	}

	if err := database.Connect(dbConfig); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	// Initialize cache
	var cacheImpl cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Type == "redis" {
		addr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
		cacheImpl, err = cache.NewRedisCache(addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		log.Info().Msg("Redis cache initialized")
	} else {
		cacheImpl = cache.NewMemoryCache()
		log.Info().Msg("Memory cache initialized")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	apptRepo := repository.NewAppointmentRepository()
	referralRepo := repository.NewReferralRepository()
	leaveRepo := repository.NewLeaveRepository()
	recordRepo := repository.NewRecordRepository()
	scheduleRepo := repository.NewScheduleRepository()
	orderRepo := repository.NewOrderRepository()
	auditRepo := repository.NewAuditRepository()

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	profileService := services.NewProfileService(userRepo, cacheImpl, cfg.Cache.CapabilityTTL)
	apptService := services.NewAppointmentService(apptRepo, scheduleRepo, auditRepo)
	referralService := services.NewReferralService(referralRepo, auditRepo)
	leaveService := services.NewLeaveService(leaveRepo, auditRepo)
	recordService := services.NewRecordService(recordRepo)
	scheduleService := services.NewScheduleService(scheduleRepo, cacheImpl)
	orderService := services.NewOrderService(orderRepo, auditRepo)
	patientService := services.NewPatientService(apptRepo, referralRepo, recordRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	apptHandler := handlers.NewAppointmentHandler(apptService)
	referralHandler := handlers.NewReferralHandler(referralService)
	leaveHandler := handlers.NewLeaveHandler(leaveService)
	recordHandler := handlers.NewRecordHandler(recordService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	orderHandler := handlers.NewOrderHandler(orderService)
	patientHandler := handlers.NewPatientHandler(patientService, profileService)

	authenticator := middleware.NewAuthenticator(authService, profileService)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Compress(5))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health endpoints (no authentication required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Public API
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/signin", authHandler.Signin)
		r.Post("/signout", authHandler.Signout)
		r.Post("/password-reset", authHandler.ResetPassword)
	})
	r.Get("/api/v1/tests", orderHandler.Catalog)

	// Protected API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticator.Authenticate)

		r.Route("/profile", func(r chi.Router) {
			r.With(middleware.Authorize("profile.complete")).Post("/complete", profileHandler.Complete)
			r.With(middleware.Authorize("profile.complete")).Get("/capabilities", profileHandler.Capabilities)
			r.With(middleware.Authorize("")).Get("/", profileHandler.Get)
		})

		r.Route("/appointments", func(r chi.Router) {
			r.With(middleware.Authorize("appointments.book")).Post("/", apptHandler.Book)
			r.With(middleware.Authorize("appointments.manage")).Post("/{appointmentID}/transition", apptHandler.Transition)
			r.With(middleware.Authorize("appointments.manage")).Put("/{appointmentID}/notes", apptHandler.UpdateNotes)
			r.With(middleware.Authorize("appointments.manage")).Get("/{appointmentID}/history", apptHandler.History)
			r.With(middleware.Authorize("appointments.manage")).Get("/doctor/{doctorID}", apptHandler.ListForDoctor)
			r.With(middleware.Authorize("appointments.book")).Get("/customer/{customerID}", apptHandler.ListForCustomer)
		})

		r.Route("/referrals", func(r chi.Router) {
			r.Use(middleware.Authorize("referrals"))
			r.Post("/", referralHandler.Create)
			r.Patch("/{referralID}", referralHandler.Update)
			r.Get("/made", referralHandler.ListMadeBy)
			r.Get("/received", referralHandler.ListAddressedTo)
		})

		r.Route("/leaves", func(r chi.Router) {
			r.Use(middleware.Authorize("leaves"))
			r.Post("/", leaveHandler.Request)
			r.Post("/{leaveID}/cancel", leaveHandler.Cancel)
			r.Get("/", leaveHandler.List)
		})

		r.Route("/schedules", func(r chi.Router) {
			r.With(middleware.Authorize("")).Get("/doctor/{doctorID}", scheduleHandler.ListWeeklySlots)
			r.With(middleware.Authorize("")).Get("/doctor/{doctorID}/emergency/{date}", scheduleHandler.GetEmergencySlot)
			r.With(middleware.Authorize("schedules.manage")).Post("/doctor/{doctorID}", scheduleHandler.CreateWeeklySlot)
			r.With(middleware.Authorize("schedules.manage")).Delete("/slots/{slotID}", scheduleHandler.RetireWeeklySlot)
			r.With(middleware.Authorize("schedules.manage")).Post("/emergency", scheduleHandler.SetEmergencySlot)
			r.With(middleware.Authorize("schedules.manage")).Delete("/emergency/{date}", scheduleHandler.ClearEmergencySlot)
			r.With(middleware.Authorize("schedules.manage")).Delete("/emergency", scheduleHandler.ClearAllEmergencySlots)
		})

		r.Route("/records", func(r chi.Router) {
			r.With(middleware.Authorize("records.write")).Post("/", recordHandler.Create)
			r.With(middleware.Authorize("records.write")).Post("/prescriptions", recordHandler.CreatePrescription)
			r.With(middleware.Authorize("records.read")).Get("/patient/{patientID}", recordHandler.ListForPatient)
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.Authorize("orders.checkout")).Post("/checkout", orderHandler.Checkout)
			r.With(middleware.Authorize("records.read")).Get("/customer/{customerID}", orderHandler.ListForCustomer)
			r.With(middleware.Authorize("orders.process")).Post("/{orderID}/advance", orderHandler.Advance)
		})

		r.Route("/patients", func(r chi.Router) {
			r.Use(middleware.Authorize("patients"))
			r.Get("/doctor/{doctorID}", patientHandler.DoctorPatients)
			r.Get("/{patientID}/medications", patientHandler.PatientMedications)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authorize("admin"))
			r.Get("/users/{userID}/roles", patientHandler.UserRoles)
			r.Post("/users/{userID}/roles", patientHandler.GrantRole)
			r.Delete("/users/{userID}/roles", patientHandler.RevokeRole)
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
