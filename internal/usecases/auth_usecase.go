package usecases

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"carbon-market.backend/internal/domain/entities"
	domainerrors "carbon-market.backend/internal/domain/errors"
	"carbon-market.backend/internal/domain/repositories"
	"carbon-market.backend/internal/infrastructure/captcha"
	"carbon-market.backend/pkg/crypto"
	"carbon-market.backend/pkg/jwt"
	"carbon-market.backend/pkg/logger"
	"carbon-market.backend/pkg/redis"
)

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo        repositories.UserRepository
	captchaVerifier captcha.Verifier
	jwtService      *jwt.JWTService
	expiryGrants    *redis.VerificationStore
}

// NewAuthUsecase creates a new auth usecase
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	captchaVerifier captcha.Verifier,
	jwtService *jwt.JWTService,
	expiryGrants *redis.VerificationStore,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:        userRepo,
		captchaVerifier: captchaVerifier,
		jwtService:      jwtService,
		expiryGrants:    expiryGrants,
	}
}

// Signup registers a new account. The CAPTCHA token is checked before any
// database access so bots never reach the identity store.
func (u *AuthUsecase) Signup(ctx context.Context, input *entities.SignupInput, remoteIP string) (*entities.User, error) {
	if !entities.ValidRole(input.Role) {
		return nil, domainerrors.BadRequest("unknown role")
	}

	if u.captchaVerifier != nil {
		if err := u.captchaVerifier.Verify(ctx, input.CaptchaToken, remoteIP); err != nil {
			if errors.Is(err, domainerrors.ErrCaptchaFailed) {
				return nil, domainerrors.BadRequest("captcha verification failed")
			}
			return nil, err
		}
	}

	_, err := u.userRepo.GetByUsername(ctx, input.Username)
	if err == nil {
		return nil, domainerrors.NewAppError(http.StatusConflict, "username already taken", domainerrors.ErrAlreadyExists)
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         entities.UserRole(input.Role),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.NewAppError(http.StatusConflict, "username already taken", domainerrors.ErrAlreadyExists)
		}
		return nil, err
	}
	return user, nil
}

// Login checks the credentials and issues a bearer token. The requested role
// must match the stored one; a wrong role is indistinguishable from a wrong
// password in the response.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NewAppError(http.StatusUnauthorized, "invalid credentials", domainerrors.ErrInvalidCredentials)
		}
		return nil, err
	}

	if string(user.Role) != input.Role || !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.NewAppError(http.StatusUnauthorized, "invalid credentials", domainerrors.ErrInvalidCredentials)
	}

	token, err := u.jwtService.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &entities.AuthResponse{AccessToken: token, Role: user.Role}, nil
}

// VerifyForExpiry re-checks the password of an already authenticated creator
// and records a short-lived grant. The grant is advisory; the expire endpoint
// enforces identity and lifecycle guards on its own.
func (u *AuthUsecase) VerifyForExpiry(ctx context.Context, username, password string) error {
	user, err := u.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.NewAppError(http.StatusUnauthorized, "invalid credentials", domainerrors.ErrInvalidCredentials)
		}
		return err
	}
	if !crypto.CheckPassword(password, user.PasswordHash) {
		return domainerrors.NewAppError(http.StatusUnauthorized, "invalid credentials", domainerrors.ErrInvalidCredentials)
	}
	u.expiryGrants.Grant(ctx, username)
	return nil
}

// ConsumeExpiryGrant reports whether username re-verified their password
// recently and spends the grant so it cannot back a second expiry. A missing
// grant is logged, not enforced.
func (u *AuthUsecase) ConsumeExpiryGrant(ctx context.Context, username string) bool {
	if u.expiryGrants == nil {
		return false
	}
	if !u.expiryGrants.IsGranted(ctx, username) {
		logger.Warn(ctx, "credit expiry without recent password re-verification", zap.String("username", username))
		return false
	}
	u.expiryGrants.Revoke(ctx, username)
	return true
}
