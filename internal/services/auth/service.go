package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	apperrors "kudi/internal/errors"
	"kudi/internal/models"
	"kudi/internal/repositories"
	"kudi/internal/utils"
	"kudi/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is a sign-up request.
type RegisterInput struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// TokenPair is what a successful sign-in returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Service interface {
	Register(ctx context.Context, in RegisterInput) (*models.Identity, *TokenPair, error)
	Login(ctx context.Context, email, phone, password string) (*models.Identity, *TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, identityID uuid.UUID) error
	GetIdentity(ctx context.Context, identityID uuid.UUID) (*models.Identity, error)
	GetTokenVersion(ctx context.Context, identityID uuid.UUID) (int, error)
}

type service struct {
	identityRepo repositories.IdentityRepository
}

func NewService(identityRepo repositories.IdentityRepository) Service {
	return &service{
		identityRepo: identityRepo,
	}
}

func (s *service) Register(ctx context.Context, in RegisterInput) (*models.Identity, *TokenPair, error) {
	v := validation.New()
	v.Registration(in.Phone, in.Email, in.Password, in.FullName)
	if err := v.Err(); err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, errors.New("failed to hash password")
	}

	identity := &models.Identity{
		Phone:        optional(in.Phone),
		Email:        optional(strings.ToLower(in.Email)),
		PasswordHash: string(hash),
	}
	if name := strings.TrimSpace(in.FullName); name != "" {
		identity.Metadata = models.JSON{models.MetadataFullName: name}
	}
	if err := s.identityRepo.Create(ctx, identity); err != nil {
		log.Printf("Register failed: %v", err)
		return nil, nil, err
	}
	log.Printf("✅ Registered identity %s", identity.ID)

	pair, err := issue(identity)
	if err != nil {
		return nil, nil, err
	}
	return identity, pair, nil
}

func (s *service) Login(ctx context.Context, email, phone, password string) (*models.Identity, *TokenPair, error) {
	v := validation.New()
	v.Credentials(phone, email, password)
	if err := v.Err(); err != nil {
		return nil, nil, err
	}

	identity, err := s.getIdentityByIdentifier(ctx, email, phone)
	if err != nil {
		log.Printf("Login failed: identity not found for identifier: %s", email+phone)
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		log.Printf("Login failed: incorrect password for identity %s", identity.ID)
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	pair, err := issue(identity)
	if err != nil {
		return nil, nil, err
	}
	return identity, pair, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	_, claims, err := utils.ParseToken(refreshToken, models.TokenKindRefresh)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated.WithMessage("invalid refresh token")
	}

	identity, err := s.identityRepo.GetByID(ctx, claims.IdentityID)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated.WithMessage("identity not found")
	}

	if identity.TokenVersion != claims.TokenVersion {
		return nil, apperrors.ErrUnauthenticated.WithMessage("token has been revoked")
	}
	return issue(identity)
}

func (s *service) Logout(ctx context.Context, identityID uuid.UUID) error {
	_, err := s.identityRepo.IncrementTokenVersion(ctx, identityID)
	return err
}

func (s *service) GetIdentity(ctx context.Context, identityID uuid.UUID) (*models.Identity, error) {
	return s.identityRepo.GetByID(ctx, identityID)
}

func (s *service) GetTokenVersion(ctx context.Context, identityID uuid.UUID) (int, error) {
	return s.identityRepo.GetTokenVersion(ctx, identityID)
}

func (s *service) getIdentityByIdentifier(ctx context.Context, email, phone string) (*models.Identity, error) {
	if email != "" {
		return s.identityRepo.GetByEmail(ctx, strings.ToLower(email))
	}
	return s.identityRepo.GetByPhone(ctx, phone)
}

func issue(identity *models.Identity) (*TokenPair, error) {
	access, refresh, err := utils.GenerateTokens(models.ClaimsFor(identity))
	if err != nil {
		log.Println("Error generating tokens:", err)
		return nil, errors.New("error generating tokens")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
