package variants

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/malehdhliso/chartedart-backend/pkg/db"
	"github.com/malehdhliso/chartedart-backend/pkg/db/models"
	"github.com/malehdhliso/chartedart-backend/pkg/enums"
	pkgerrors "github.com/malehdhliso/chartedart-backend/pkg/errors"
	"github.com/malehdhliso/chartedart-backend/pkg/logger"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox"
	"github.com/malehdhliso/chartedart-backend/pkg/outbox/payloads"
)

const uniqueVariantIndex = "ux_product_variants_size_frame"

// Service resolves (size, frame) pairs into persisted variants.
type Service interface {
	Resolve(ctx context.Context, req ResolveRequest) (*ResolveResponse, error)
	List(ctx context.Context) ([]VariantDTO, error)
}

// ServiceParams bundles the dependencies required to build a variant service.
type ServiceParams struct {
	DB     *db.Client
	Outbox *outbox.Service
	Logger *logger.Logger
}

type service struct {
	db     *db.Client
	outbox *outbox.Service
	logg   *logger.Logger
}

// NewService constructs the variant resolver.
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
		logg:   params.Logger,
	}, nil
}

// Resolve returns the variant for the requested size and frame, minting it
// on first use. Concurrent first calls race on the unique index and the
// loser re-reads the winner's row, so callers always get the same id.
func (s *service) Resolve(ctx context.Context, req ResolveRequest) (*ResolveResponse, error) {
	size, err := enums.ParsePrintSize(req.Size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse size")
	}
	frame, err := enums.ParseFrameType(req.FrameType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse frame type")
	}

	repo := NewRepository(s.db.DB())

	existing, err := repo.FindBySizeFrame(ctx, size, frame)
	if err == nil {
		return &ResolveResponse{Variant: FromModel(existing)}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup variant")
	}

	created, err := s.create(ctx, size, frame)
	if err == nil {
		return &ResolveResponse{Variant: FromModel(created), Created: true}, nil
	}
	if !db.IsUniqueViolation(err, uniqueVariantIndex) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create variant")
	}

	// Lost the insert race. The committed winner carries the identical
	// price, so surface it as an ordinary lookup.
	winner, err := repo.FindBySizeFrame(ctx, size, frame)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "re-read variant after conflict")
	}
	if s.logg != nil {
		s.logg.Info(ctx, "variant insert raced, returning winner")
	}
	return &ResolveResponse{Variant: FromModel(winner)}, nil
}

func (s *service) create(ctx context.Context, size enums.PrintSize, frame enums.FrameType) (*models.ProductVariant, error) {
	variant := models.ProductVariant{
		Size:      size,
		FrameType: frame,
		BasePrice: size.Price().Add(frame.Price()),
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := NewRepository(tx).Insert(ctx, &variant); err != nil {
			return err
		}
		return s.outbox.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventVariantCreated,
			AggregateType: enums.AggregateProductVariant,
			AggregateID:   variant.ID,
			Version:       1,
			Data: payloads.VariantCreatedEvent{
				VariantID: variant.ID,
				Size:      size,
				FrameType: frame,
				SKU:       enums.VariantSKU(size, frame),
				Name:      enums.VariantName(size, frame),
				BasePrice: variant.BasePrice,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// List returns the full variant catalog.
func (s *service) List(ctx context.Context) ([]VariantDTO, error) {
	rows, err := NewRepository(s.db.DB()).List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list variants")
	}
	out := make([]VariantDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}
