package auth

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/pkg/config"
	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
	"github.com/malehdhliso/chartedart-backend/pkg/security"
)

func setupRegisterTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	usersTable := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'member',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	if err := conn.Exec(usersTable).Error; err != nil {
		t.Fatalf("create users table: %v", err)
	}

	return db.NewFromGorm(conn)
}

func sampleRegisterRequest(email string) RegisterRequest {
	return RegisterRequest{
		FirstName: "Jamie",
		LastName:  "Rivera",
		Email:     email,
		Password:  "Secret123!",
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	client := setupRegisterTestDB(t)
	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             client,
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}

	req := sampleRegisterRequest("new@example.com")
	if err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	var user models.User
	if err := client.DB().Where("email = ?", "new@example.com").First(&user).Error; err != nil {
		t.Fatalf("lookup created user: %v", err)
	}
	if user.PasswordHash == req.Password {
		t.Fatalf("password stored in plaintext")
	}
	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !valid {
		t.Fatalf("stored hash does not verify: valid=%v err=%v", valid, err)
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	client := setupRegisterTestDB(t)
	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             client,
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}

	if err := svc.Register(context.Background(), sampleRegisterRequest("  Mixed@Example.COM ")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	var count int64
	if err := client.DB().Model(&models.User{}).Where("email = ?", "mixed@example.com").Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected normalized email row, got %d", count)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	client := setupRegisterTestDB(t)
	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             client,
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}

	req := sampleRegisterRequest("dup@example.com")
	if err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	err = svc.Register(context.Background(), req)
	if err == nil {
		t.Fatalf("expected conflict for duplicate email")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}
