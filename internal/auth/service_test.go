package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"hackquest/agent-api/internal/models"
	"hackquest/agent-api/internal/repositories"
)

type memoryUserRepo struct {
	byEmail map[string]*models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{byEmail: make(map[string]*models.User)}
}

func (r *memoryUserRepo) Create(user *models.User) error {
	stored := *user
	r.byEmail[user.Email] = &stored
	return nil
}

func (r *memoryUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *memoryUserRepo) FindByEmail(email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memoryUserRepo) ExistsByEmail(email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *memoryUserRepo) UpdateProfile(id uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error) {
	return r.FindByID(id)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(newMemoryUserRepo(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestNewServiceRequiresSecret(t *testing.T) {
	if _, err := NewService(newMemoryUserRepo(), "", time.Hour); err == nil {
		t.Error("expected an error for an empty secret")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	parsed, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if parsed != userID {
		t.Errorf("parsed user id = %s, want %s", parsed, userID)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.ParseToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := newTestService(t)
	verifier, err := NewService(newMemoryUserRepo(), "another-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	token, err := issuer.GenerateToken(uuid.New())
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := verifier.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemoryUserRepo()
	svc, err := NewService(repo, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	reg, err := svc.Register(&models.RegisterRequest{
		Email:    "dev@example.com",
		Username: "dev",
		Password: "hunter2hunter2",
		FullName: "Dev Example",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.Token == "" {
		t.Error("register returned an empty token")
	}
	if reg.User.PasswordHash != "" {
		t.Error("register leaked the password hash")
	}

	if _, err := svc.Register(&models.RegisterRequest{Email: "dev@example.com"}); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate register err = %v, want ErrUserExists", err)
	}

	login, err := svc.Login(&models.LoginRequest{Email: "dev@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Errorf("login user id = %s, want %s", login.User.ID, reg.User.ID)
	}

	if _, err := svc.Login(&models.LoginRequest{Email: "dev@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCreds) {
		t.Errorf("wrong password err = %v, want ErrInvalidCreds", err)
	}
	if _, err := svc.Login(&models.LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, ErrInvalidCreds) {
		t.Errorf("unknown user err = %v, want ErrInvalidCreds", err)
	}
}
