package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"storefront/internal/domain"
	userrepo "storefront/internal/repository/user"
)

// ErrInvalidCredentials is returned when email/password do not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

const birthDateLayout = "2006-01-02"

// Service handles user registration, login and profile updates.
type Service struct {
	repo        userrepo.Repository
	passwordMin int
}

// New creates a Service with sane defaults.
func New(repo userrepo.Repository) *Service {
	return &Service{repo: repo, passwordMin: 8}
}

// SignupInput captures fields expected by the registration endpoint.
type SignupInput struct {
	Name      string
	Gender    string
	BirthDate string
	Address   string
	Phone     string
	Email     string
	Password  string
}

// PatchInput carries optional profile fields; nil means unchanged.
type PatchInput struct {
	Name      *string
	Gender    *string
	BirthDate *string
	Address   *string
	Phone     *string
}

// Signup registers a new user. Duplicate emails surface as domain.ErrConflict.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password, s.passwordMin); err != nil {
		return nil, err
	}
	birthDate, err := parseBirthDate(in.BirthDate)
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, domain.User{
		Name:         name,
		Gender:       strings.TrimSpace(in.Gender),
		BirthDate:    birthDate,
		Address:      strings.TrimSpace(in.Address),
		Phone:        strings.TrimSpace(in.Phone),
		Email:        email,
		PasswordHash: string(hashed),
	})
}

// Login validates credentials and returns the matching user. The password is compared byte for byte.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial profile update and returns the refreshed user.
// An empty patch or an unknown id is domain.ErrNotFound.
func (s *Service) Update(ctx context.Context, id int64, in PatchInput) (*domain.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	patch := domain.UserPatch{
		Name:    trimmed(in.Name),
		Gender:  trimmed(in.Gender),
		Address: trimmed(in.Address),
		Phone:   trimmed(in.Phone),
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, domain.NewValidationError("name", "must not be blank")
	}
	if in.BirthDate != nil {
		birthDate, err := parseBirthDate(*in.BirthDate)
		if err != nil {
			return nil, err
		}
		patch.BirthDate = birthDate
	}
	if patch.Empty() {
		return nil, domain.ErrNotFound
	}
	if err := s.repo.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func validateID(id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id", "must be a positive integer")
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.NewValidationError("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.NewValidationError("email", "is not a valid address")
	}
	return email, nil
}

func parseBirthDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		return nil, domain.NewValidationError("birth_date", "must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	out := strings.TrimSpace(*v)
	return &out
}

// bcrypt refuses inputs longer than 72 bytes.
const passwordMaxBytes = 72

func validatePassword(p string, min int) error {
	if len(p) < min {
		return domain.NewValidationError("password", fmt.Sprintf("must be at least %d characters", min))
	}
	if len(p) > passwordMaxBytes {
		return domain.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", passwordMaxBytes))
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range p {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return domain.NewValidationError("password", "must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
