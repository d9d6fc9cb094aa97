package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sauvini-api/internal/data/entity"
	"sauvini-api/internal/data/repository"
	"sauvini-api/internal/dto/request"
	"sauvini-api/pkg/mailer"
	"sauvini-api/pkg/throttle"
	"sauvini-api/pkg/token"
	"sauvini-api/pkg/utils"
)

type VerificationService interface {
	SendVerificationEmail(ctx context.Context, role entity.UserRole, req *request.SendVerificationEmailRequest) error
	VerifyEmail(ctx context.Context, role entity.UserRole, req *request.VerifyEmailRequest) error
	ForgotPassword(ctx context.Context, role entity.UserRole, req *request.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, role entity.UserRole, req *request.ResetPasswordRequest) error
}

type codeSender interface {
	send(ctx context.Context, user *entity.User, purpose token.Purpose) error
}

type verificationService struct {
	repo      *repository.Repository
	tokens    token.Service
	mail      mailer.Mailer
	throttler throttle.Throttler
	config    *utils.Config
	log       *zap.Logger
}

func newVerificationService(
	repo *repository.Repository,
	tokens token.Service,
	mail mailer.Mailer,
	throttler throttle.Throttler,
	config *utils.Config,
	log *zap.Logger,
) *verificationService {
	return &verificationService{
		repo:      repo,
		tokens:    tokens,
		mail:      mail,
		throttler: throttler,
		config:    config,
		log:       log.With(zap.String("service", "verification")),
	}
}

// send issues a code for purpose and mails it. Reset codes are bound to the
// current password hash.
func (s *verificationService) send(ctx context.Context, user *entity.User, purpose token.Purpose) error {
	var fingerprint string
	if purpose == token.PurposeReset {
		fingerprint = token.Fingerprint(user.PasswordHash)
	}

	code, expiresAt, err := s.tokens.IssueCode(subjectOf(user), purpose, fingerprint)
	if err != nil {
		return fmt.Errorf("issue %s code: %w", purpose, err)
	}

	var msg mailer.Message
	switch purpose {
	case token.PurposeReset:
		msg = mailer.PasswordResetEmail(user.Email, user.FullName(), s.config.Auth.FrontendURL, code, string(user.Role), expiresAt)
	default:
		msg = mailer.VerificationEmail(user.Email, user.FullName(), s.config.Auth.FrontendURL, code, string(user.Role), expiresAt)
	}

	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}
	return nil
}

// findRecipient loads the account a code is requested for. Unknown emails
// and accounts of another role are both reported as not found.
func (s *verificationService) findRecipient(ctx context.Context, role entity.UserRole, email string) (*entity.User, error) {
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || user.Role != role {
		return nil, fmt.Errorf("%w: no %s account for this email", ErrNotFound, role)
	}
	return user, nil
}

func throttleKey(purpose token.Purpose, email string) string {
	return string(purpose) + ":" + email
}

func (s *verificationService) allow(ctx context.Context, purpose token.Purpose, email string) error {
	ok, err := s.throttler.Allow(ctx, throttleKey(purpose, email), s.config.Auth.ResendCooldown)
	if err != nil {
		// throttling is best effort
		s.log.Warn("Throttle unavailable", zap.Error(err))
		return nil
	}
	if !ok {
		return ErrTooManyRequests
	}
	return nil
}

// release frees the slot taken by allow when nothing was delivered, so the
// client can retry straight away.
func (s *verificationService) release(ctx context.Context, purpose token.Purpose, email string) {
	if err := s.throttler.Release(ctx, throttleKey(purpose, email)); err != nil {
		s.log.Warn("Failed to release throttle", zap.Error(err))
	}
}

func codeError(err error) error {
	if errors.Is(err, token.ErrExpiredToken) {
		return ErrExpiredCode
	}
	return fmt.Errorf("%w: %v", ErrInvalidCode, err)
}

// verifiedUser resolves a code to its account and checks that the account
// still matches the claims.
func (s *verificationService) verifiedUser(ctx context.Context, role entity.UserRole, code string, purpose token.Purpose) (*entity.User, *token.CodeClaims, error) {
	claims, err := s.tokens.VerifyCode(code, purpose)
	if err != nil {
		return nil, nil, codeError(err)
	}
	if claims.Role != string(role) {
		return nil, nil, fmt.Errorf("%w: code issued for %s", ErrInvalidCode, claims.Role)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, ErrInvalidCode
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || user.Role != role || !strings.EqualFold(user.Email, claims.Email) {
		return nil, nil, ErrInvalidCode
	}

	return user, claims, nil
}

func (s *verificationService) SendVerificationEmail(ctx context.Context, role entity.UserRole, req *request.SendVerificationEmailRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	if err := checkUserType(role, req.UserType); err != nil {
		return err
	}

	email := normalizeEmail(req.Email)
	user, err := s.findRecipient(ctx, role, email)
	if err != nil {
		return err
	}

	if user.EmailVerified {
		s.log.Info("Email already verified, nothing to send", zap.String("user_id", user.ID.String()))
		return nil
	}

	if err := s.allow(ctx, token.PurposeVerify, email); err != nil {
		return err
	}

	if err := s.send(ctx, user, token.PurposeVerify); err != nil {
		s.log.Error("Failed to send verification email", zap.Error(err), zap.String("user_id", user.ID.String()))
		s.release(ctx, token.PurposeVerify, email)
		return err
	}

	s.log.Info("Verification email sent", zap.String("user_id", user.ID.String()))
	return nil
}

// VerifyEmail is idempotent: a valid code for an already verified account
// succeeds without changes.
func (s *verificationService) VerifyEmail(ctx context.Context, role entity.UserRole, req *request.VerifyEmailRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	if err := checkUserType(role, req.UserType); err != nil {
		return err
	}

	user, _, err := s.verifiedUser(ctx, role, req.Token, token.PurposeVerify)
	if err != nil {
		return err
	}

	if user.EmailVerified {
		return nil
	}

	if err := s.repo.User.MarkEmailVerified(ctx, user.ID); err != nil {
		s.log.Error("Failed to mark email verified", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("mark email verified: %w", err)
	}

	s.log.Info("Email verified", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *verificationService) ForgotPassword(ctx context.Context, role entity.UserRole, req *request.ForgotPasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	if err := checkUserType(role, req.UserType); err != nil {
		return err
	}

	email := normalizeEmail(req.Email)
	user, err := s.findRecipient(ctx, role, email)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return ErrAccountDeactivated
	}

	if err := s.allow(ctx, token.PurposeReset, email); err != nil {
		return err
	}

	if err := s.send(ctx, user, token.PurposeReset); err != nil {
		s.log.Error("Failed to send password reset email", zap.Error(err), zap.String("user_id", user.ID.String()))
		s.release(ctx, token.PurposeReset, email)
		return err
	}

	s.log.Info("Password reset email sent", zap.String("user_id", user.ID.String()))
	return nil
}

// ResetPassword sets a new password. A code stops validating once the
// password it was issued against has changed, and the write only lands if the
// hash is still the one the code was checked against, so a code is used once.
func (s *verificationService) ResetPassword(ctx context.Context, role entity.UserRole, req *request.ResetPasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	if err := checkUserType(role, req.UserType); err != nil {
		return err
	}
	if !utils.IsStrongPassword(req.Password) {
		return ErrWeakPassword
	}

	user, claims, err := s.verifiedUser(ctx, role, req.Token, token.PurposeReset)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return ErrAccountDeactivated
	}
	if !token.FingerprintMatches(claims.Fingerprint, token.Fingerprint(user.PasswordHash)) {
		return fmt.Errorf("%w: code already used", ErrInvalidCode)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.User.UpdatePassword(ctx, user.ID, user.PasswordHash, hashedPassword); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return fmt.Errorf("%w: code already used", ErrInvalidCode)
		}
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}
