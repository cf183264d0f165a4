package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hurby24/Bibliobay-backend/internal/application/otp"
	"github.com/hurby24/Bibliobay-backend/internal/application/session"
	"github.com/hurby24/Bibliobay-backend/internal/domain"
	"github.com/hurby24/Bibliobay-backend/internal/pkg/csrf"
	pkgdevice "github.com/hurby24/Bibliobay-backend/internal/pkg/device"
	"github.com/hurby24/Bibliobay-backend/internal/pkg/id"
	"github.com/hurby24/Bibliobay-backend/internal/pkg/username"
)

// EmailAuthRequest is the body of both signup and login.
type EmailAuthRequest struct {
	Email        string `json:"email" validate:"required,email,max=254"`
	CaptchaToken string `json:"cf-turnstile-response" validate:"required"`
}

type VerifyRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

// RequestMeta carries what the transport layer knows about the caller.
// SessionID is the id read from a correctly signed session cookie, or empty.
type RequestMeta struct {
	SessionID string
	IP        string
	UserAgent string
}

// Result is what a completed flow hands back to the transport layer.
// CSRFToken is set whenever a new session was minted.
type Result struct {
	User      *domain.User
	Session   *domain.Session
	CSRFToken string
}

type Service interface {
	Signup(ctx context.Context, req EmailAuthRequest, meta RequestMeta) (*Result, error)
	Login(ctx context.Context, req EmailAuthRequest, meta RequestMeta) (*Result, error)
	ResendOTP(ctx context.Context, meta RequestMeta) error
	Verify(ctx context.Context, req VerifyRequest, meta RequestMeta) (*Result, error)
	Logout(ctx context.Context, meta RequestMeta) error
	Current(ctx context.Context, meta RequestMeta) (*Result, error)
	// OAuthCallback exchanges an authorization code and signs the provider identity in
	// with a full session. No OTP is involved: the provider's email verification is trusted.
	OAuthCallback(ctx context.Context, code, codeVerifier string, meta RequestMeta) (*Result, error)
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleSub(ctx context.Context, sub string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

type captchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type emailSender interface {
	SendOTP(ctx context.Context, to string, msg domain.OTPMessage) error
}

type oauthExchanger interface {
	Exchange(ctx context.Context, code, codeVerifier string) (*domain.ExternalIdentity, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, e domain.AuthEvent) error
}

type ServiceDeps struct {
	UserRepo   userStore
	Sessions   session.Service
	OTP        otp.Service
	Captcha    captchaVerifier
	Email      emailSender
	OAuth      oauthExchanger // nil when Google sign-in is not configured
	Events     eventPublisher
	CSRFSecret []byte
	Clock      func() time.Time
}

type service struct {
	userRepo   userStore
	sessions   session.Service
	otp        otp.Service
	captcha    captchaVerifier
	email      emailSender
	oauth      oauthExchanger
	events     eventPublisher
	csrfSecret []byte
	now        func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		userRepo:   deps.UserRepo,
		sessions:   deps.Sessions,
		otp:        deps.OTP,
		captcha:    deps.Captcha,
		email:      deps.Email,
		oauth:      deps.OAuth,
		events:     deps.Events,
		csrfSecret: deps.CSRFSecret,
		now:        deps.Clock,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Signup(ctx context.Context, req EmailAuthRequest, meta RequestMeta) (*Result, error) {
	if err := s.precheck(ctx, req, meta); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("user already exists: %w", domain.ErrBadRequest)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	u, err := s.newUser(req.Email, domain.AuthProviderEmail)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	res, err := s.startVerification(ctx, u, domain.OTPModeSignup, meta)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EventSignedUp, u.UserID)
	return res, nil
}

func (s *service) Login(ctx context.Context, req EmailAuthRequest, meta RequestMeta) (*Result, error) {
	if err := s.precheck(ctx, req, meta); err != nil {
		return nil, err
	}
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("user does not exist: %w", domain.ErrBadRequest)
	}
	if err != nil {
		return nil, err
	}
	if u.IsBanned {
		return nil, fmt.Errorf("user is banned: %w", domain.ErrForbidden)
	}
	now := s.now().UTC()
	if err := s.userRepo.Update(ctx, u.UserID, map[string]interface{}{"last_sign_in_at": now}); err != nil {
		return nil, err
	}
	u.LastSignInAt = now
	res, err := s.startVerification(ctx, u, domain.OTPModeLogin, meta)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EventLoggedIn, u.UserID)
	return res, nil
}

func (s *service) ResendOTP(ctx context.Context, meta RequestMeta) error {
	sess, err := s.requireSession(ctx, meta.SessionID)
	if err != nil {
		return err
	}
	if sess.EmailVerified {
		return fmt.Errorf("session already verified: %w", domain.ErrAlreadyVerified)
	}
	u, err := s.userRepo.Get(ctx, sess.UserID)
	if err != nil {
		return err
	}
	mode := domain.OTPModeSignup
	if u.EmailVerified() {
		mode = domain.OTPModeLogin
	}
	return s.sendOTP(ctx, u, mode, meta)
}

func (s *service) Verify(ctx context.Context, req VerifyRequest, meta RequestMeta) (*Result, error) {
	sess, err := s.requireSession(ctx, meta.SessionID)
	if err != nil {
		return nil, err
	}
	if sess.EmailVerified {
		return nil, fmt.Errorf("session already verified: %w", domain.ErrAlreadyVerified)
	}
	if err := s.otp.Verify(ctx, sess.UserID, req.OTP); err != nil {
		return nil, err
	}
	full, err := s.sessions.Create(ctx, sess.UserID, false)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Revoke(ctx, sess.SessionID); err != nil {
		return nil, err
	}
	u, err := s.userRepo.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	res, err := s.result(u, full)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EventVerified, u.UserID)
	return res, nil
}

func (s *service) Logout(ctx context.Context, meta RequestMeta) error {
	if meta.SessionID == "" {
		return fmt.Errorf("user not logged in: %w", domain.ErrUnauthorized)
	}
	if err := s.sessions.Revoke(ctx, meta.SessionID); err != nil {
		return err
	}
	if userID, _, err := domain.ParseSessionID(meta.SessionID); err == nil {
		s.publish(ctx, domain.EventLoggedOut, userID)
	}
	return nil
}

func (s *service) Current(ctx context.Context, meta RequestMeta) (*Result, error) {
	sess, err := s.requireSession(ctx, meta.SessionID)
	if err != nil {
		return nil, err
	}
	u, err := s.userRepo.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	return &Result{User: u, Session: sess}, nil
}

func (s *service) OAuthCallback(ctx context.Context, code, codeVerifier string, meta RequestMeta) (*Result, error) {
	if s.oauth == nil {
		return nil, fmt.Errorf("oauth sign-in disabled: %w", domain.ErrNotFound)
	}
	if err := s.rejectLiveSession(ctx, meta.SessionID); err != nil {
		return nil, err
	}
	ident, err := s.oauth.Exchange(ctx, code, codeVerifier)
	if err != nil {
		return nil, err
	}
	if !ident.EmailVerified || ident.Email == "" {
		return nil, fmt.Errorf("provider email not verified: %w", domain.ErrUnauthorized)
	}
	u, err := s.resolveOAuthUser(ctx, ident)
	if err != nil {
		return nil, err
	}
	if u.IsBanned {
		return nil, fmt.Errorf("user is banned: %w", domain.ErrForbidden)
	}
	sess, err := s.sessions.Create(ctx, u.UserID, false)
	if err != nil {
		return nil, err
	}
	res, err := s.result(u, sess)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.EventOAuthLogin, u.UserID)
	return res, nil
}

// resolveOAuthUser finds the local account bound to ident, links an existing account
// with the same email, or creates a new one.
func (s *service) resolveOAuthUser(ctx context.Context, ident *domain.ExternalIdentity) (*domain.User, error) {
	now := s.now().UTC()
	u, err := s.userRepo.GetByGoogleSub(ctx, ident.Subject)
	if err == nil {
		if err := s.userRepo.Update(ctx, u.UserID, map[string]interface{}{"last_sign_in_at": now}); err != nil {
			return nil, err
		}
		u.LastSignInAt = now
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	u, err = s.userRepo.GetByEmail(ctx, ident.Email)
	switch {
	case err == nil:
		updates := map[string]interface{}{"google_sub": ident.Subject, "last_sign_in_at": now}
		if u.EmailConfirmedAt == nil {
			updates["email_confirmed_at"] = now
			u.EmailConfirmedAt = &now
		}
		if err := s.userRepo.Update(ctx, u.UserID, updates); err != nil {
			return nil, err
		}
		u.GoogleSub = ident.Subject
		u.LastSignInAt = now
		return u, nil
	case errors.Is(err, domain.ErrNotFound):
		u, err = s.newUser(ident.Email, domain.AuthProviderGoogle)
		if err != nil {
			return nil, err
		}
		u.GoogleSub = ident.Subject
		u.EmailConfirmedAt = &now
		if err := s.userRepo.Create(ctx, u); err != nil {
			return nil, err
		}
		s.publish(ctx, domain.EventSignedUp, u.UserID)
		return u, nil
	default:
		return nil, err
	}
}

// precheck runs the gates shared by signup and login.
func (s *service) precheck(ctx context.Context, req EmailAuthRequest, meta RequestMeta) error {
	if err := s.rejectLiveSession(ctx, meta.SessionID); err != nil {
		return err
	}
	ok, err := s.captcha.Verify(ctx, req.CaptchaToken, meta.IP)
	if err != nil {
		return fmt.Errorf("verify captcha: %w", err)
	}
	if !ok {
		return fmt.Errorf("invalid captcha: %w", domain.ErrInvalidCredential)
	}
	return nil
}

func (s *service) rejectLiveSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	_, err := s.sessions.Validate(ctx, sessionID)
	switch {
	case err == nil:
		return fmt.Errorf("user already logged in: %w", domain.ErrAlreadyLoggedIn)
	case errors.Is(err, domain.ErrNotFound):
		return nil
	default:
		return err
	}
}

func (s *service) requireSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("no session: %w", domain.ErrUnauthorized)
	}
	sess, err := s.sessions.Validate(ctx, sessionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("no active session: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// startVerification opens a temporary session for u and mails a fresh code.
func (s *service) startVerification(ctx context.Context, u *domain.User, mode string, meta RequestMeta) (*Result, error) {
	sess, err := s.sessions.Create(ctx, u.UserID, true)
	if err != nil {
		return nil, err
	}
	if err := s.sendOTP(ctx, u, mode, meta); err != nil {
		return nil, err
	}
	return s.result(u, sess)
}

func (s *service) sendOTP(ctx context.Context, u *domain.User, mode string, meta RequestMeta) error {
	o, err := s.otp.Issue(ctx, u)
	if err != nil {
		return err
	}
	return s.email.SendOTP(ctx, u.Email, domain.OTPMessage{
		Mode:   mode,
		Code:   o.Code,
		Device: pkgdevice.Describe(meta.UserAgent),
		Date:   s.now().UTC(),
	})
}

func (s *service) result(u *domain.User, sess *domain.Session) (*Result, error) {
	tok, err := csrf.Mint(sess.SessionID, s.csrfSecret)
	if err != nil {
		return nil, err
	}
	return &Result{User: u, Session: sess, CSRFToken: tok}, nil
}

func (s *service) newUser(email, provider string) (*domain.User, error) {
	name, err := username.Generate()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	return &domain.User{
		UserID:       id.New(),
		Username:     name,
		Email:        email,
		Avatar:       username.AvatarURL(name),
		AuthProvider: provider,
		LastSignInAt: now,
		CreatedAt:    now,
	}, nil
}

func (s *service) publish(ctx context.Context, eventType, userID string) {
	if s.events == nil {
		return
	}
	e := domain.AuthEvent{Type: eventType, UserID: userID, OccurredAt: s.now().UTC()}
	if err := s.events.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish auth event", "type", eventType, "user_id", userID, "err", err)
	}
}
