package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"ridehail/internal/domain"
	"ridehail/internal/observability"
	"ridehail/internal/redis"
	"ridehail/internal/repository"
)

const codeDigits = 6

// AuthService runs the mock one-time-code exchange and user registration.
type AuthService struct {
	userRepo      repository.UserRepository
	codes         redis.CodeStoreInterface
	driverService *DriverService
	codeTTL       time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	codes redis.CodeStoreInterface,
	driverService *DriverService,
	codeTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		codes:         codes,
		driverService: driverService,
		codeTTL:       codeTTL,
		logger:        logger,
		now:           time.Now,
	}
}

// SendCode issues a fresh code for phone, replacing any outstanding one.
// No SMS is sent; the caller decides whether to expose the code.
func (s *AuthService) SendCode(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", ErrInvalidPhone
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}
	if err := s.codes.Save(ctx, phone, code, s.codeTTL); err != nil {
		return "", fmt.Errorf("save verification code: %w", err)
	}

	s.logger.InfoContext(ctx, "verification code issued", "phone", phone)
	return code, nil
}

// VerifyCode consumes the outstanding code for phone. The code is gone
// after this call whether or not it matched. The returned user is nil when
// the phone has not registered yet.
func (s *AuthService) VerifyCode(ctx context.Context, phone, code string) (*domain.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrInvalidPhone
	}

	stored, ok, err := s.codes.Consume(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("consume verification code: %w", err)
	}
	if !ok || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		observability.CodeVerifications.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCode
	}
	observability.CodeVerifications.WithLabelValues("verified").Inc()

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RegisterRequest contains the parameters for registering a user.
type RegisterRequest struct {
	Phone    string
	Role     domain.Role
	Language domain.Language
	Profile  *domain.Profile
	Vehicle  *domain.Vehicle // drivers only
}

// Register creates a user. A driver is created together with a driver
// record under the same ID. A taken phone number yields repository.ErrDuplicate.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Phone == "" {
		return nil, ErrInvalidPhone
	}
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if req.Language == "" {
		req.Language = domain.LanguageEnglish
	}
	if req.Language != domain.LanguageEnglish && req.Language != domain.LanguageAmharic {
		return nil, ErrInvalidLanguage
	}

	existing, err := s.userRepo.GetByPhone(ctx, req.Phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, repository.ErrDuplicate
	}

	user := &domain.User{
		ID:        uuid.New().String(),
		Phone:     req.Phone,
		Role:      req.Role,
		Language:  req.Language,
		Profile:   req.Profile,
		CreatedAt: s.now().UTC(),
	}
	if user.Role == domain.RoleDriver {
		if _, err := s.driverService.CreateAccount(ctx, user, req.Vehicle); err != nil {
			return nil, err
		}
	} else if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// GetUserByPhone looks up a user by phone number.
func (s *AuthService) GetUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrInvalidPhone
	}
	return s.userRepo.GetByPhone(ctx, phone)
}

// generateCode returns a zero-padded random decimal code.
func generateCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
