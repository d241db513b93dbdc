package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jengzang/safeguard-backend/internal/models"
)

// bcrypt rejects longer inputs
const maxPasswordBytes = 72

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	aadharPattern = regexp.MustCompile(`^\d{12}$`)
)

// AuthService handles registration and login
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	log    *zap.Logger
	now    func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, tokens TokenIssuer, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log, now: time.Now}
}

// Register validates and stores a new user together with their emergency contact
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	required := []struct {
		name  string
		value string
	}{
		{"name", req.Name},
		{"email", req.Email},
		{"password", req.Password},
		{"aadhar_number", req.AadharNumber},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, models.Validation(fmt.Sprintf("%s is required", f.name))
		}
	}
	if req.EmergencyContact == nil {
		return nil, models.Validation("emergency_contact is required")
	}

	if len(req.Password) > maxPasswordBytes {
		return nil, models.Validation(fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}

	email := strings.TrimSpace(req.Email)
	if !emailPattern.MatchString(email) {
		return nil, models.Validation("Invalid email format")
	}

	aadhar := strings.ReplaceAll(req.AadharNumber, " ", "")
	if !aadharPattern.MatchString(aadhar) {
		return nil, models.Validation("Aadhar number must be 12 digits")
	}

	ec := req.EmergencyContact
	for _, f := range []struct{ name, value string }{
		{"name", ec.Name}, {"phone", ec.Phone}, {"relation", ec.Relation},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, models.Validation(fmt.Sprintf("Emergency contact %s is required", f.name))
		}
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.Conflict("User with this email already exists")
	}
	exists, err = s.users.ExistsByAadhar(ctx, aadhar)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.Conflict("User with this Aadhar number already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		AadharNumber: aadhar,
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	contact := &models.TrustedContact{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Name:      strings.TrimSpace(ec.Name),
		Phone:     strings.TrimSpace(ec.Phone),
		Relation:  strings.TrimSpace(ec.Relation),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.CreateWithContact(ctx, user, contact); err != nil {
		return nil, err
	}

	user.EmergencyContact = &models.ContactInput{Name: contact.Name, Phone: contact.Phone, Relation: contact.Relation}
	s.log.Info("User registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login checks credentials and returns a signed token
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return "", nil, models.Validation("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if isNotFound(err) {
			return "", nil, models.Unauthenticated("Invalid email or password")
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, models.Unauthenticated("Invalid email or password")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
