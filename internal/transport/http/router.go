package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/dakshh-official/dakshh-api/internal/application/adminauth"
	"github.com/dakshh-official/dakshh-api/internal/application/adminusers"
	"github.com/dakshh-official/dakshh-api/internal/application/auth"
	"github.com/dakshh-official/dakshh-api/internal/application/checkin"
	"github.com/dakshh-official/dakshh-api/internal/application/events"
	"github.com/dakshh-official/dakshh-api/internal/application/registration"
	"github.com/dakshh-official/dakshh-api/internal/config"
	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/transport/http/handler"
	appmiddleware "github.com/dakshh-official/dakshh-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to OTP and gate endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		Users:     deps.UserRepo,
		Sessions:  deps.OTPSessions,
		Mailer:    deps.Mailer,
		OTPExpiry: cfg.OTPExpiry,
	})
	adminAuthSvc := adminauth.NewService(adminauth.ServiceDeps{
		Admins:    deps.AdminUserRepo,
		Sessions:  deps.AdminOTPSessions,
		Signer:    deps.Authority,
		Mailer:    deps.Mailer,
		MasterKey: cfg.AdminMasterKey,
		OTPExpiry: cfg.OTPExpiry,
	})
	checkinSvc := checkin.NewService(checkin.ServiceDeps{
		Events:        deps.EventRepo,
		Users:         deps.UserRepo,
		Registrations: deps.RegistrationRepo,
		QR:            deps.QRSigner,
		FoodCooldown:  cfg.FoodCooldown,
	})
	eventSvc := events.NewService(deps.EventRepo, deps.S3Store)
	regSvc := registration.NewService(deps.EventRepo, deps.UserRepo, deps.RegistrationRepo)
	adminUserSvc := adminusers.NewService(deps.AdminUserRepo, deps.Mailer)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	adminAuthH := handler.NewAdminAuthHandler(adminAuthSvc, deps.Authority)
	checkinH := handler.NewCheckInHandler(checkinSvc)
	eventH := handler.NewEventHandler(eventSvc)
	regH := handler.NewRegistrationHandler(regSvc)
	adminUserH := handler.NewAdminUserHandler(adminUserSvc)
	profileH := handler.NewProfileHandler(deps.UserRepo, deps.QRSigner)

	adminAuthMw := appmiddleware.AdminAuth(deps.Authority)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes ────────────────────────────────────────────────────
		r.Get("/health-check", healthH.Ping)

		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/send-otp", authH.SendOTP)
		r.With(sensitiveRL.Limit).Post("/auth/resend-otp", authH.ResendOTP)
		r.With(sensitiveRL.Limit).Post("/auth/verify-otp", authH.VerifyOTP)

		r.Get("/events", eventH.ListPublic)
		r.Get("/events/{id}", eventH.Get)
		r.Post("/registrations", regH.RegisterSolo)
		r.Get("/profile/qr", profileH.QR)

		// ── Admin auth (no session yet) ──────────────────────────────────────
		r.Route("/admin/auth", func(r chi.Router) {
			r.With(sensitiveRL.Limit).Post("/gate", adminAuthH.Gate)
			r.Post("/check-user", adminAuthH.CheckUser)
			r.With(sensitiveRL.Limit).Post("/setup-password", adminAuthH.SetupPassword)
			r.With(sensitiveRL.Limit).Post("/send-otp", adminAuthH.SendOTP)
			r.With(sensitiveRL.Limit).Post("/verify", adminAuthH.Verify)
			r.Post("/logout", adminAuthH.Logout)
		})

		// ── Admin panel (session cookie required) ────────────────────────────
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuthMw)

			r.Get("/me", adminAuthH.Me)

			// Authorization for check-in is decided inside the service so the
			// scan result can carry a structured denial.
			r.Post("/check-in", checkinH.CheckIn)

			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireCapability(domain.CapEvents))

				r.Get("/events", eventH.ListAll)
				r.Post("/events", eventH.Create)
				r.Put("/events/{id}", eventH.Update)
				r.Post("/events/{id}/banner", eventH.UploadBanner)
			})

			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireCapability(domain.CapRegistrations))

				r.Get("/events/{eventId}/registrations", regH.ListByEvent)
				r.Put("/registrations/{id}/verify", regH.Verify)
			})

			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireCapability(domain.CapUsers))

				r.Get("/users", adminUserH.List)
				r.Post("/users/invite", adminUserH.Invite)
			})
		})
	})

	return r
}
