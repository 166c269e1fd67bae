package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Postgres fills ids via gen_random_uuid(); sqlite has no equivalent, so
// every model mints its id before insert when the caller left it zero.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error { ensureID(&u.ID); return nil }

func (v *ProductVariant) BeforeCreate(*gorm.DB) error { ensureID(&v.ID); return nil }

func (c *Cart) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }

func (i *CartItem) BeforeCreate(*gorm.DB) error { ensureID(&i.ID); return nil }

func (o *Order) BeforeCreate(*gorm.DB) error { ensureID(&o.ID); return nil }

func (i *OrderItem) BeforeCreate(*gorm.DB) error { ensureID(&i.ID); return nil }

func (c *Competition) BeforeCreate(*gorm.DB) error { ensureID(&c.ID); return nil }

func (s *GallerySubmission) BeforeCreate(*gorm.DB) error { ensureID(&s.ID); return nil }

func (s *CompetitionSubmission) BeforeCreate(*gorm.DB) error { ensureID(&s.ID); return nil }

func (v *Vote) BeforeCreate(*gorm.DB) error { ensureID(&v.ID); return nil }

func (i *Initiative) BeforeCreate(*gorm.DB) error { ensureID(&i.ID); return nil }

func (s *CollageSubmission) BeforeCreate(*gorm.DB) error { ensureID(&s.ID); return nil }

func (e *Event) BeforeCreate(*gorm.DB) error { ensureID(&e.ID); return nil }

func (r *EventRSVP) BeforeCreate(*gorm.DB) error { ensureID(&r.ID); return nil }

func (e *OutboxEvent) BeforeCreate(*gorm.DB) error { ensureID(&e.ID); return nil }

func (d *OutboxDLQ) BeforeCreate(*gorm.DB) error { ensureID(&d.ID); return nil }
