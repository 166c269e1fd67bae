package cart

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/internal/variants"
	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox/payloads"
)

const (
	uniqueCartIndex   = "ux_carts_user"
	itemCountCacheTTL = 10 * time.Minute
)

// countCache is the slice of the Redis client the cart service needs. The
// DB stays authoritative; the cache only serves the badge count.
type countCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CartCountKey(userID string) string
}

// Service manages the per-user singleton cart.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	ItemCount(ctx context.Context, userID *uuid.UUID) (int, error)
}

// ServiceParams bundles the dependencies required to build a cart service.
// Cache is optional; without it every count hits the database.
type ServiceParams struct {
	DB     *db.Client
	Outbox *outbox.Service
	Cache  countCache
	Logger *logger.Logger
}

type service struct {
	db     *db.Client
	outbox *outbox.Service
	cache  countCache
	logg   *logger.Logger
}

// NewService constructs the cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "outbox service required")
	}
	return &service{
		db:     params.DB,
		outbox: params.Outbox,
		cache:  params.Cache,
		logg:   params.Logger,
	}, nil
}

// AddItem appends a quantity-one line to the user's cart, creating the cart
// on first use. It returns the cart with the new line included.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	if req.VariantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if req.ImageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}

	variant, err := variants.NewRepository(s.db.DB()).FindByID(ctx, req.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup variant")
	}

	price := req.Price
	if price.IsZero() {
		price = variant.BasePrice
	}
	if price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	cart, err := s.ensureCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		item := models.CartItem{
			CartID:    cart.ID,
			VariantID: variant.ID,
			Quantity:  1,
			Price:     price,
			ImageURL:  req.ImageURL,
		}
		if err := repo.InsertItem(ctx, &item); err != nil {
			return err
		}
		count, err := repo.SumQuantities(ctx, cart.ID)
		if err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCartItemsChanged,
			AggregateType: enums.AggregateCart,
			AggregateID:   cart.ID,
			Version:       1,
			Data: payloads.CartItemsChangedEvent{
				CartID:    cart.ID,
				UserID:    userID,
				ItemCount: count,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart item")
	}

	return s.Get(ctx, userID)
}

// Get returns the user's cart with lines and variants, or an empty cart
// shape when none exists yet.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := NewRepository(s.db.DB()).FindByUserWithItems(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CartDTO{UserID: userID, Items: []CartItemDTO{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return FromModel(cart), nil
}

// ItemCount returns the badge count for the header. A nil user means no
// session; that is zero, not an error.
func (s *service) ItemCount(ctx context.Context, userID *uuid.UUID) (int, error) {
	if userID == nil || *userID == uuid.Nil {
		return 0, nil
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, s.cache.CartCountKey(userID.String())); err == nil {
			if count, convErr := strconv.Atoi(cached); convErr == nil {
				return count, nil
			}
		}
	}

	count, err := s.countFromDB(ctx, *userID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		key := s.cache.CartCountKey(userID.String())
		if err := s.cache.Set(ctx, key, strconv.Itoa(count), itemCountCacheTTL); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "cart count cache write failed")
		}
	}
	return count, nil
}

func (s *service) countFromDB(ctx context.Context, userID uuid.UUID) (int, error) {
	repo := NewRepository(s.db.DB())
	cart, err := repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	count, err := repo.SumQuantities(ctx, cart.ID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum cart quantities")
	}
	return count, nil
}

func (s *service) ensureCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	repo := NewRepository(s.db.DB())

	cart, err := repo.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart")
	}

	fresh := models.Cart{UserID: userID}
	createErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return NewRepository(tx).InsertCart(ctx, &fresh)
	})
	if createErr != nil && !db.IsUniqueViolation(createErr, uniqueCartIndex) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "create cart")
	}

	// Re-read regardless: on conflict another request created the cart
	// first, and on success this picks up the generated id.
	winner, err := repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "re-read cart")
	}
	return winner, nil
}
