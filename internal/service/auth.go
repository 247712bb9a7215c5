package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"rentstack-backend/internal/domain"
	"rentstack-backend/internal/repository"
	"rentstack-backend/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type authService struct {
	customerRepo repository.CustomerRepository
	tokens       security.TokenManager
}

func NewAuthService(customerRepo repository.CustomerRepository, tokens security.TokenManager) AuthService {
	return &authService{customerRepo: customerRepo, tokens: tokens}
}

func (s *authService) Signup(ctx context.Context, name, email, phone, password string) (*domain.Customer, string, string, error) {
	if name == "" {
		return nil, "", "", domain.NewValidationError(domain.ErrKindMissingField, "name", "name is required")
	}
	if email == "" {
		return nil, "", "", domain.NewValidationError(domain.ErrKindMissingField, "email", "email is required")
	}
	if len(password) < 8 {
		return nil, "", "", domain.NewValidationError(domain.ErrKindMissingField, "password", "password must be at least 8 characters")
	}
	if existing, err := s.customerRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, "", "", domain.NewValidationError(domain.ErrKindMissingField, "email", "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	customer := &domain.Customer{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         domain.CustomerRoleCustomer,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(customer)
	if err != nil {
		return nil, "", "", err
	}
	return customer, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}
	if customer.Blocked {
		return "", "", domain.NewValidationError(domain.ErrKindCustomerIneligible, "email", "account is blocked")
	}
	return s.issueTokens(customer)
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokens.ValidateToken(refresh)
	if err != nil {
		return "", "", err
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrWrongTokenType
	}

	customer, err := s.customerRepo.GetByID(ctx, claims.CustomerID)
	if err != nil {
		return "", "", err
	}
	if customer.Blocked {
		return "", "", domain.NewValidationError(domain.ErrKindCustomerIneligible, "email", "account is blocked")
	}
	return s.issueTokens(customer)
}

func (s *authService) issueTokens(customer *domain.Customer) (string, string, error) {
	access, err := s.tokens.GenerateAccessToken(customer.ID, customer.Email, string(customer.Role))
	if err != nil {
		return "", "", err
	}
	refresh, err := s.tokens.GenerateRefreshToken(customer.ID, customer.Email)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
