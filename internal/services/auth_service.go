package services

import (
	"fmt"
	"log"
	"time"

	"pedefood/internal/errs"
	"pedefood/internal/models"
	"pedefood/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Actor is the verified identity behind a request: who is calling and in
// which role. Lifecycle transitions are gated on the role.
type Actor struct {
	UserID string
	Name   string
	Role   models.Role
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterUser registers a new user, hashes their password, and saves them.
// A duplicate email fails with errs.ErrConflict and creates no second record.
func (s *AuthService) RegisterUser(user *models.User) error {
	if user.Name == "" || user.Email == "" || user.Password == "" || user.Role == "" {
		return errs.Validationf("nome, email, senha and tipo are all required")
	}
	if _, err := models.ParseRole(string(user.Role)); err != nil {
		return err
	}

	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return errs.Conflictf("email %s already registered", user.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user by email and returns a signed JWT on
// success. Unknown email and wrong password produce the same error, so the
// response does not reveal which part was wrong.
func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", errs.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", errs.ErrUnauthorized)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"nome":    user.Name,
		"tipo":    string(user.Role),
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, user, nil
}

// ValidateToken parses and validates a JWT token, returning the Actor it
// identifies. Any parse, signature or expiry failure maps to ErrForbidden
// (credential present but unusable), per the legacy API contract.
func (s *AuthService) ValidateToken(tokenString string) (*Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("%w: invalid or expired token", errs.ErrForbidden)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", errs.ErrForbidden)
	}

	userID, _ := claims["user_id"].(string)
	name, _ := claims["nome"].(string)
	roleStr, _ := claims["tipo"].(string)
	role, err := models.ParseRole(roleStr)
	if err != nil || userID == "" {
		return nil, fmt.Errorf("%w: malformed token claims", errs.ErrForbidden)
	}

	return &Actor{UserID: userID, Name: name, Role: role}, nil
}
