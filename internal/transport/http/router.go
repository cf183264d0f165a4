package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hurby24/Bibliobay-backend/internal/application/auth"
	"github.com/hurby24/Bibliobay-backend/internal/application/otp"
	"github.com/hurby24/Bibliobay-backend/internal/application/session"
	"github.com/hurby24/Bibliobay-backend/internal/config"
	"github.com/hurby24/Bibliobay-backend/internal/transport/http/cookie"
	"github.com/hurby24/Bibliobay-backend/internal/transport/http/handler"
	appmiddleware "github.com/hurby24/Bibliobay-backend/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. Closing stop ends the rate
// limiter's background sweep.
func NewRouter(cfg *config.Config, deps *Deps, stop <-chan struct{}) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", cookie.CSRFHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	secret := []byte(cfg.HMACSecret)
	jar := cookie.NewJar(secret, cfg.CookieSecure, cfg.CookieDomain)
	limiter := appmiddleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, jar, stop)

	sessionSvc := session.NewService(session.ServiceDeps{Store: deps.SessionStore})
	otpSvc := otp.NewService(otp.ServiceDeps{
		VerificationRepo: deps.VerificationRepo,
		UserRepo:         deps.UserRepo,
	})
	authDeps := auth.ServiceDeps{
		UserRepo:   deps.UserRepo,
		Sessions:   sessionSvc,
		OTP:        otpSvc,
		Captcha:    deps.Captcha,
		Email:      deps.Email,
		Events:     deps.Events,
		CSRFSecret: secret,
	}
	if deps.OAuth != nil {
		authDeps.OAuth = deps.OAuth
	}
	authSvc := auth.NewService(authDeps)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, jar)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(appmiddleware.CSRF(jar, secret))
		r.Use(limiter.Limit)

		r.Get("/health-check/{action}", healthH.Ping)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authH.Signup)
			r.Post("/login", authH.Login)
			r.Post("/otp", authH.ResendOTP)
			r.Post("/verify", authH.Verify)
			r.Post("/logout", authH.Logout)
			r.Get("/session", authH.Session)

			if deps.OAuth != nil {
				oauthH := handler.NewOAuthHandler(authH, deps.OAuth, cfg.OAuthSuccessRedirect)
				r.Get("/google", oauthH.Start)
				r.Get("/google/callback", oauthH.Callback)
			}
		})
	})

	return r
}
