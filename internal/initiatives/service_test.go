package initiatives

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/internal/events"
	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
)

func setupInitiativeTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS initiatives (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS collage_submissions (
  id TEXT PRIMARY KEY,
  initiative_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  image_url TEXT NOT NULL,
  created_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_collage_submissions_initiative_user
  ON collage_submissions(initiative_id, user_id);`,
		`CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  initiative_id TEXT,
  title TEXT NOT NULL,
  description TEXT,
  event_date DATETIME NOT NULL,
  location TEXT,
  is_approved INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS event_rsvps (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_event_rsvps_event_user
  ON event_rsvps(event_id, user_id);`,
	}
	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}

	return db.NewFromGorm(conn)
}

func newInitiativeService(t *testing.T, client *db.Client) Service {
	t.Helper()
	eventSvc, err := events.NewService(events.ServiceParams{DB: client})
	if err != nil {
		t.Fatalf("new event service: %v", err)
	}
	svc, err := NewService(ServiceParams{DB: client, Events: eventSvc})
	if err != nil {
		t.Fatalf("new initiative service: %v", err)
	}
	return svc
}

func seedInitiative(t *testing.T, client *db.Client, status enums.InitiativeStatus) *models.Initiative {
	t.Helper()
	initiative := &models.Initiative{
		ID:     uuid.New(),
		Title:  "Community Mural",
		Status: status,
	}
	if err := client.DB().Create(initiative).Error; err != nil {
		t.Fatalf("seed initiative: %v", err)
	}
	return initiative
}

func TestListReturnsActiveOnly(t *testing.T) {
	client := setupInitiativeTestDB(t)
	svc := newInitiativeService(t, client)

	active := seedInitiative(t, client, enums.InitiativeStatusActive)
	seedInitiative(t, client, enums.InitiativeStatusCompleted)
	seedInitiative(t, client, enums.InitiativeStatusArchived)

	listed, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != active.ID {
		t.Fatalf("expected only the active initiative, got %+v", listed)
	}
}

func TestGetIncludesApprovedEvents(t *testing.T) {
	client := setupInitiativeTestDB(t)
	svc := newInitiativeService(t, client)
	ctx := context.Background()

	initiative := seedInitiative(t, client, enums.InitiativeStatusActive)
	future := time.Now().UTC().AddDate(0, 1, 0)

	approved := &models.Event{
		ID:           uuid.New(),
		InitiativeID: &initiative.ID,
		Title:        "Mural Paint Day",
		EventDate:    future,
		IsApproved:   true,
	}
	if err := client.DB().Create(approved).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	hidden := &models.Event{
		ID:           uuid.New(),
		InitiativeID: &initiative.ID,
		Title:        "Unreviewed Meetup",
		EventDate:    future,
		IsApproved:   false,
	}
	if err := client.DB().Create(hidden).Error; err != nil {
		t.Fatalf("seed hidden event: %v", err)
	}

	detail, err := svc.Get(ctx, initiative.ID, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Events) != 1 || detail.Events[0].ID != approved.ID {
		t.Fatalf("expected only the approved event, got %+v", detail.Events)
	}

	_, err = svc.Get(ctx, uuid.New(), nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown initiative, got %v", err)
	}
}

func TestSubmitCollageOncePerUser(t *testing.T) {
	client := setupInitiativeTestDB(t)
	svc := newInitiativeService(t, client)
	ctx := context.Background()

	initiative := seedInitiative(t, client, enums.InitiativeStatusActive)
	userID := uuid.New()
	req := CollageSubmitRequest{ImageURL: "https://cdn.example.com/me.png"}

	first, err := svc.SubmitCollage(ctx, userID, initiative.ID, req)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if first.ImageURL != req.ImageURL {
		t.Fatalf("expected stored image url, got %s", first.ImageURL)
	}

	_, err = svc.SubmitCollage(ctx, userID, initiative.ID, req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for repeat contribution, got %v", err)
	}
	if typed.Message() != "already submitted" {
		t.Fatalf("expected 'already submitted', got %q", typed.Message())
	}

	// A different user still contributes fine.
	if _, err := svc.SubmitCollage(ctx, uuid.New(), initiative.ID, req); err != nil {
		t.Fatalf("second user submit: %v", err)
	}

	contributions, err := svc.ListCollage(ctx, initiative.ID)
	if err != nil {
		t.Fatalf("list collage: %v", err)
	}
	if len(contributions) != 2 {
		t.Fatalf("expected two contributions, got %d", len(contributions))
	}
}
