package tests

import (
	"context"
	"errors"
	"testing"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
	"ridehail/internal/service"
)

func TestAuth_CodeVerifiesOnce(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()

	code, err := env.authService.SendCode(ctx, "+251911000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("expected 6 digit code, got %q", code)
	}

	user, err := env.authService.VerifyCode(ctx, "+251911000001", code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user != nil {
		t.Errorf("expected no user for an unregistered phone, got %+v", user)
	}

	if _, err := env.authService.VerifyCode(ctx, "+251911000001", code); !errors.Is(err, service.ErrInvalidCode) {
		t.Errorf("expected reused code to be rejected, got %v", err)
	}
}

func TestAuth_WrongCodeConsumesOutstandingCode(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()

	code, err := env.authService.SendCode(ctx, "+251911000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	if _, err := env.authService.VerifyCode(ctx, "+251911000001", wrong); !errors.Is(err, service.ErrInvalidCode) {
		t.Errorf("expected ErrInvalidCode, got %v", err)
	}
	if _, err := env.authService.VerifyCode(ctx, "+251911000001", code); !errors.Is(err, service.ErrInvalidCode) {
		t.Errorf("expected the code to be gone after a failed attempt, got %v", err)
	}
}

func TestAuth_VerifyReturnsRegisteredUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()

	registered, err := env.authService.Register(ctx, service.RegisterRequest{
		Phone: "+251911000001",
		Role:  domain.RoleRider,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if registered.Language != domain.LanguageEnglish {
		t.Errorf("expected default language en, got %s", registered.Language)
	}

	code, _ := env.authService.SendCode(ctx, "+251911000001")
	user, err := env.authService.VerifyCode(ctx, "+251911000001", code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user == nil || user.ID != registered.ID {
		t.Errorf("expected user %s, got %+v", registered.ID, user)
	}
}

func TestAuth_RegisterDriverCreatesProfile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)

	user, err := env.authService.Register(context.Background(), service.RegisterRequest{
		Phone:   "+251911000002",
		Role:    domain.RoleDriver,
		Profile: &domain.Profile{Name: "Abebe"},
		Vehicle: &domain.Vehicle{Make: "Toyota", Model: "Corolla", PlateNumber: "AA-2-555"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	driver := env.drivers.GetDriver(user.ID)
	if driver == nil {
		t.Fatal("expected a driver record with the user's ID")
	}
	if driver.Name != "Abebe" || driver.IsOnline {
		t.Errorf("unexpected driver profile %+v", driver)
	}
}

func TestAuth_RegisterDriver_ProfileFailureCanBeRetried(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()
	req := service.RegisterRequest{
		Phone:   "+251911000004",
		Role:    domain.RoleDriver,
		Profile: &domain.Profile{Name: "Abebe"},
		Vehicle: &domain.Vehicle{Make: "Toyota", Model: "Corolla", PlateNumber: "AA-2-556"},
	}

	env.drivers.CreateError = errors.New("insert failed")
	if _, err := env.authService.Register(ctx, req); err == nil {
		t.Fatal("expected registration to fail")
	}
	if _, err := env.users.GetByPhone(ctx, req.Phone); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected the phone to stay free, got %v", err)
	}

	env.drivers.CreateError = nil
	user, err := env.authService.Register(ctx, req)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if env.drivers.GetDriver(user.ID) == nil {
		t.Error("expected a driver record after retry")
	}
}

func TestAuth_DuplicatePhone_Rejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)
	ctx := context.Background()
	req := service.RegisterRequest{Phone: "+251911000003", Role: domain.RoleRider}

	if _, err := env.authService.Register(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.authService.Register(ctx, req); !errors.Is(err, repository.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
	if env.users.CountUsers() != 1 {
		t.Errorf("expected 1 user, got %d", env.users.CountUsers())
	}
}

func TestAuth_RegisterValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false)

	testCases := []struct {
		name     string
		req      service.RegisterRequest
		expected error
	}{
		{"missing phone", service.RegisterRequest{Role: domain.RoleRider}, service.ErrInvalidPhone},
		{"unknown role", service.RegisterRequest{Phone: "+251911000004", Role: "admin"}, service.ErrInvalidRole},
		{"unknown language", service.RegisterRequest{Phone: "+251911000004", Role: domain.RoleRider, Language: "fr"}, service.ErrInvalidLanguage},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.authService.Register(context.Background(), tc.req); !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}
