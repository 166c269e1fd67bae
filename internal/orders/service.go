package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/internal/cart"
	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox/payloads"
	"github.com/malehdhliso/chartedart-backend/pkg/pagination"
)

// Service runs the order lifecycle: customer submission and the admin
// status workflow.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*OrderList, error)
	SetStatus(ctx context.Context, orderID uuid.UUID, req SetStatusRequest) (*OrderDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	Submit(ctx context.Context, userID uuid.UUID) (*OrderDTO, error)
}

// ServiceParams bundles the dependencies required to build an order service.
type ServiceParams struct {
	DB     *db.Client
	Outbox *outbox.Service
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	db     *db.Client
	outbox *outbox.Service
	logg   *logger.Logger
	now    func() time.Time
}

// NewService constructs the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "outbox service required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		db:     params.DB,
		outbox: params.Outbox,
		logg:   params.Logger,
		now:    now,
	}, nil
}

// List returns one page of all orders for the admin dashboard.
func (s *service) List(ctx context.Context, params pagination.Params) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := NewRepository(s.db.DB()).ListPage(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	list := &OrderList{Orders: make([]OrderDTO, 0, limit)}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		list.Orders = append(list.Orders, *FromModel(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

// SetStatus moves an order to any valid status. The status set is flat;
// there are no transition edges to honor.
func (s *service) SetStatus(ctx context.Context, orderID uuid.UUID, req SetStatusRequest) (*OrderDTO, error) {
	status, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse status")
	}

	repo := NewRepository(s.db.DB())
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}

	oldStatus := order.Status
	changedAt := s.now()
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).UpdateStatus(ctx, orderID, status, changedAt); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   orderID,
			Version:       1,
			Data: payloads.OrderStatusChangedEvent{
				OrderID:   orderID,
				UserID:    order.UserID,
				OldStatus: oldStatus,
				NewStatus: status,
				ChangedAt: changedAt,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}

	order.Status = status
	order.UpdatedAt = changedAt
	return FromModel(order), nil
}

// ListMine returns the caller's orders.
func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := NewRepository(s.db.DB()).ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// Submit converts the user's cart into an order, queues the inventory
// sales-order notification, and clears the cart.
func (s *service) Submit(ctx context.Context, userID uuid.UUID) (*OrderDTO, error) {
	cartRepo := cart.NewRepository(s.db.DB())
	userCart, err := cartRepo.FindByUserWithItems(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if len(userCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := models.Order{
		UserID: userID,
		Status: enums.OrderStatusPending,
	}
	items := make([]models.OrderItem, 0, len(userCart.Items))
	summaries := make([]payloads.OrderSubmittedItemSummary, 0, len(userCart.Items))
	total := decimal.Zero
	for i := range userCart.Items {
		line := &userCart.Items[i]
		if line.Variant == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart line missing variant")
		}
		quantity := line.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(quantity))))
		items = append(items, models.OrderItem{
			VariantID: line.VariantID,
			Size:      line.Variant.Size,
			FrameType: line.Variant.FrameType,
			Quantity:  quantity,
			Price:     line.Price,
			ImageURL:  line.ImageURL,
		})
		summaries = append(summaries, payloads.OrderSubmittedItemSummary{
			VariantID: line.VariantID,
			Size:      line.Variant.Size,
			FrameType: line.Variant.FrameType,
			Quantity:  quantity,
			Price:     line.Price,
		})
	}
	order.TotalAmount = total
	submittedAt := s.now()

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := repo.InsertOrder(ctx, &order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.InsertItems(ctx, items); err != nil {
			return err
		}
		if err := cart.NewRepository(tx).DeleteItems(ctx, userCart.ID); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderSubmitted,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: payloads.OrderSubmittedEvent{
				OrderID:     order.ID,
				UserID:      userID,
				TotalAmount: total,
				Items:       summaries,
				SubmittedAt: submittedAt,
			},
		}); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventCartItemsChanged,
			AggregateType: enums.AggregateCart,
			AggregateID:   userCart.ID,
			Version:       1,
			Data: payloads.CartItemsChangedEvent{
				CartID:    userCart.ID,
				UserID:    userID,
				ItemCount: 0,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "submit order")
	}

	order.Items = items
	return FromModel(&order), nil
}
