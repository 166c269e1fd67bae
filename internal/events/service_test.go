package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
)

func setupEventTestDB(t *testing.T) *db.Client {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	schema := []string{
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

func newEventService(t *testing.T, client *db.Client, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:  client,
		Now: func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new event service: %v", err)
	}
	return svc
}

func seedEvent(t *testing.T, client *db.Client, date time.Time, approved bool) *models.Event {
	t.Helper()
	event := &models.Event{
		ID:         uuid.New(),
		Title:      "Collage Workshop",
		EventDate:  date,
		Location:   "Cape Town Studio",
		IsApproved: approved,
	}
	if err := client.DB().Create(event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}

func seedRSVP(t *testing.T, client *db.Client, eventID, userID uuid.UUID, status enums.RSVPStatus) {
	t.Helper()
	rsvp := &models.EventRSVP{
		ID:      uuid.New(),
		EventID: eventID,
		UserID:  userID,
		Status:  status,
	}
	if err := client.DB().Create(rsvp).Error; err != nil {
		t.Fatalf("seed rsvp: %v", err)
	}
}

func TestListUpcomingFiltersAndTallies(t *testing.T) {
	client := setupEventTestDB(t)
	now := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	svc := newEventService(t, client, now)
	ctx := context.Background()

	upcoming := seedEvent(t, client, now.AddDate(0, 0, 3), true)
	today := seedEvent(t, client, now, true)
	seedEvent(t, client, now.AddDate(0, 0, -1), true)  // past
	seedEvent(t, client, now.AddDate(0, 0, 5), false)  // unapproved

	seedRSVP(t, client, upcoming.ID, uuid.New(), enums.RSVPStatusAttending)
	seedRSVP(t, client, upcoming.ID, uuid.New(), enums.RSVPStatusAttending)
	seedRSVP(t, client, upcoming.ID, uuid.New(), enums.RSVPStatusInterested)

	listed, err := svc.ListUpcoming(ctx, nil)
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected today and the future event, got %d", len(listed))
	}
	if listed[0].ID != today.ID {
		t.Fatalf("expected soonest event first, got %s", listed[0].ID)
	}

	byID := map[uuid.UUID]EventDTO{}
	for _, e := range listed {
		byID[e.ID] = e
	}
	if got := byID[upcoming.ID].AttendingCount; got != 2 {
		t.Fatalf("expected 2 attending, interested must not count, got %d", got)
	}
	if got := byID[today.ID].AttendingCount; got != 0 {
		t.Fatalf("expected no attendance for the other event, got %d", got)
	}
}

func TestListUpcomingIncludesCallerStatus(t *testing.T) {
	client := setupEventTestDB(t)
	now := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	svc := newEventService(t, client, now)

	event := seedEvent(t, client, now.AddDate(0, 0, 2), true)
	caller := uuid.New()
	seedRSVP(t, client, event.ID, caller, enums.RSVPStatusInterested)

	listed, err := svc.ListUpcoming(context.Background(), &caller)
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected one event, got %d", len(listed))
	}
	if listed[0].MyStatus == nil || *listed[0].MyStatus != enums.RSVPStatusInterested {
		t.Fatalf("expected caller status interested, got %v", listed[0].MyStatus)
	}
}

func TestRSVPUpsertsInPlace(t *testing.T) {
	client := setupEventTestDB(t)
	now := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	svc := newEventService(t, client, now)
	ctx := context.Background()

	event := seedEvent(t, client, now.AddDate(0, 0, 2), true)
	userID := uuid.New()

	first, err := svc.RSVP(ctx, userID, event.ID, RSVPRequest{Status: "attending"})
	if err != nil {
		t.Fatalf("first rsvp: %v", err)
	}
	if first.Status != enums.RSVPStatusAttending {
		t.Fatalf("expected attending, got %s", first.Status)
	}

	second, err := svc.RSVP(ctx, userID, event.ID, RSVPRequest{Status: "not_attending"})
	if err != nil {
		t.Fatalf("second rsvp: %v", err)
	}
	if second.Status != enums.RSVPStatusNotAttending {
		t.Fatalf("expected not_attending, got %s", second.Status)
	}

	var count int64
	if err := client.DB().Model(&models.EventRSVP{}).Count(&count).Error; err != nil {
		t.Fatalf("count rsvps: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row after upsert, got %d", count)
	}

	var stored models.EventRSVP
	if err := client.DB().Where("event_id = ? AND user_id = ?", event.ID, userID).First(&stored).Error; err != nil {
		t.Fatalf("load rsvp: %v", err)
	}
	if stored.Status != enums.RSVPStatusNotAttending {
		t.Fatalf("expected stored status updated, got %s", stored.Status)
	}
}

func TestRSVPValidation(t *testing.T) {
	client := setupEventTestDB(t)
	now := time.Now().UTC()
	svc := newEventService(t, client, now)
	ctx := context.Background()

	event := seedEvent(t, client, now.AddDate(0, 0, 2), true)

	_, err := svc.RSVP(ctx, uuid.New(), event.ID, RSVPRequest{Status: "maybe"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}

	_, err = svc.RSVP(ctx, uuid.New(), uuid.New(), RSVPRequest{Status: "attending"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown event, got %v", err)
	}
}
