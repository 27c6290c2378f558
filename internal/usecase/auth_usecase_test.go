package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/vitaliscar/Proyecto-PRM/internal/delivery/dto"
	"github.com/vitaliscar/Proyecto-PRM/internal/domain/entity"
	"github.com/vitaliscar/Proyecto-PRM/internal/repository"
	"github.com/vitaliscar/Proyecto-PRM/pkg/jwt"

	"github.com/vitaliscar/Proyecto-PRM/config"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// newAuthUsecase builds an auth usecase against the test database. The Redis
// client points nowhere; only flows that stop before touching Redis are
// exercised here.
func newAuthUsecase(f *appointmentFixture) AuthUsecase {
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret"})
	redisClient := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	return NewAuthUsecase(f.db, newTestLogger(), repository.NewUserRepository(), jwtService, redisClient)
}

func TestCreateUser(t *testing.T) {
	f := newAppointmentFixture(t)
	uc := newAuthUsecase(f)

	created, err := uc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Cedula:    "V-10000010",
		Email:     "new@clinic.test",
		Password:  "s3cret-pass",
		FirstName: "Nora",
		LastName:  "Nueva",
		Role:      "receptionist",
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if created.Role != "receptionist" || !created.IsActive {
		t.Errorf("created user = %+v", created)
	}

	var stored entity.User
	if err := f.db.First(&stored, "cedula = ?", "V-10000010").Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if stored.Password == "s3cret-pass" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret-pass")); err != nil {
		t.Errorf("stored password does not verify: %v", err)
	}

	_, err = uc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Cedula:    "V-10000011",
		Email:     "bad@clinic.test",
		Password:  "s3cret-pass",
		FirstName: "Bad",
		LastName:  "Role",
		Role:      "superuser",
	})
	if !errors.Is(err, ErrInvalidRole) {
		t.Errorf("invalid role error = %v, want ErrInvalidRole", err)
	}
}

func TestLoginRejections(t *testing.T) {
	f := newAppointmentFixture(t)
	uc := newAuthUsecase(f)

	hashed, err := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	user := &entity.User{
		Cedula:    "V-10000020",
		Email:     "login@clinic.test",
		Password:  string(hashed),
		FirstName: "Luis",
		LastName:  "Login",
		Role:      entity.RoleReceptionist,
		IsActive:  true,
	}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Cedula: "V-10000020", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}

	_, err = uc.Login(context.Background(), &dto.LoginRequest{Cedula: "V-99999999", Password: "right-pass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown cedula error = %v, want ErrInvalidCredentials", err)
	}

	if err := f.db.Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}
	_, err = uc.Login(context.Background(), &dto.LoginRequest{Cedula: "V-10000020", Password: "right-pass"})
	if !errors.Is(err, ErrUserInactive) {
		t.Errorf("inactive login error = %v, want ErrUserInactive", err)
	}
}

func TestListUsersByRole(t *testing.T) {
	f := newAppointmentFixture(t)
	uc := newAuthUsecase(f)

	psychologists, err := uc.ListUsers(context.Background(), "psychologist")
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if psychologists.Total != 1 {
		t.Errorf("psychologists = %d, want 1", psychologists.Total)
	}

	all, err := uc.ListUsers(context.Background(), "")
	if err != nil {
		t.Fatalf("list users failed: %v", err)
	}
	if all.Total != 2 {
		t.Errorf("all users = %d, want 2", all.Total)
	}

	if _, err := uc.ListUsers(context.Background(), "wizard"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("invalid role error = %v, want ErrInvalidRole", err)
	}
}
