package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/Mosco267/exodus-logistics-platform-sub001/internal/domain"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/errors"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/identity"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/logging"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/metrics"
)

const (
	// maxListLimit is the hard ceiling on list results regardless of the
	// requested limit
	maxListLimit = 50

	// maxSearchResults caps prefix search output
	maxSearchResults = 8

	// maxInsertAttempts bounds the retry loop when a freshly generated
	// identifier collides with an existing one
	maxInsertAttempts = 3
)

// ShipmentApplicationService handles shipment use cases
type ShipmentApplicationService struct {
	shipments domain.ShipmentRepository
	history   domain.TrackingHistoryRepository
	logger    *logging.Logger
	metrics   *metrics.Metrics
}

// NewShipmentApplicationService creates a new ShipmentApplicationService
func NewShipmentApplicationService(
	shipments domain.ShipmentRepository,
	history domain.TrackingHistoryRepository,
	logger *logging.Logger,
	m *metrics.Metrics,
) *ShipmentApplicationService {
	return &ShipmentApplicationService{
		shipments: shipments,
		history:   history,
		logger:    logger,
		metrics:   m,
	}
}

// Create issues identifiers and persists a shipment for the calling
// identity. Uniqueness conflicts trigger identifier reissue, bounded at
// three attempts.
func (s *ShipmentApplicationService) Create(ctx context.Context, caller *identity.Identity, cmd CreateShipmentCommand) (*ShipmentDTO, error) {
	if caller == nil || caller.IsAnonymous() {
		return nil, errors.ErrUnauthorized("")
	}

	shipment, err := domain.NewShipment(caller.UserID, caller.Email, cmd.OriginCountry, cmd.InitialStatus)
	if err != nil {
		return nil, errors.ErrValidation(err.Error())
	}

	for attempt := 1; ; attempt++ {
		err = s.shipments.Insert(ctx, shipment)
		if err == nil {
			break
		}
		if err != domain.ErrDuplicateIdentifier || attempt >= maxInsertAttempts {
			s.logger.WithError(err).Error("Failed to insert shipment",
				"shipmentId", shipment.ShipmentID,
				"attempt", attempt,
			)
			return nil, fmt.Errorf("failed to insert shipment: %w", err)
		}

		s.logger.Warn("Identifier collision, reissuing",
			"shipmentId", shipment.ShipmentID,
			"attempt", attempt,
		)
		if err := shipment.Reissue(); err != nil {
			return nil, fmt.Errorf("failed to reissue identifiers: %w", err)
		}
	}

	if err := s.history.Append(ctx, &domain.TrackingEvent{
		ShipmentID: shipment.ShipmentID,
		Status:     shipment.Status,
		RecordedAt: shipment.CreatedAt,
	}); err != nil {
		// The shipment is already durable; a missing first event is
		// recoverable from the aggregate itself.
		s.logger.WithError(err).Warn("Failed to append creation event", "shipmentId", shipment.ShipmentID)
	}

	if s.metrics != nil {
		s.metrics.RecordShipmentCreated(shipment.OriginCountry)
	}

	s.logger.Audit(ctx, "shipment.created", "shipment", shipment.ShipmentID, caller.UserID, map[string]any{
		"trackingNumber": shipment.TrackingNumber,
	})

	return ToShipmentDTO(shipment), nil
}

// UpdateStatus applies a status transition and appends the matching
// history event
func (s *ShipmentApplicationService) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) error {
	change, err := domain.NewStatusChange(cmd.ShipmentID, cmd.Status, cmd.StatusNote)
	if err != nil {
		return errors.ErrValidation(err.Error())
	}

	matched, err := s.shipments.UpdateStatus(ctx, cmd.ShipmentID, change)
	if err != nil {
		s.logger.WithError(err).Error("Failed to update shipment status", "shipmentId", cmd.ShipmentID)
		return fmt.Errorf("failed to update status: %w", err)
	}
	if matched == 0 {
		return errors.ErrNotFoundWithID("shipment", cmd.ShipmentID)
	}

	if err := s.history.Append(ctx, domain.NewTrackingEvent(cmd.ShipmentID, change)); err != nil {
		// The status write already landed; the log entry is best-effort
		// and its absence is visible from statusUpdatedAt.
		s.logger.WithError(err).Warn("Failed to append tracking event", "shipmentId", cmd.ShipmentID)
	}

	if s.metrics != nil {
		s.metrics.RecordStatusTransition(strings.ToLower(strings.TrimSpace(cmd.Status)))
	}

	return nil
}

// Get fetches a shipment visible to the caller
func (s *ShipmentApplicationService) Get(ctx context.Context, caller *identity.Identity, shipmentID string) (*ShipmentDTO, error) {
	shipment, err := s.shipments.FindByShipmentID(ctx, shipmentID, identity.ScopeFor(caller))
	if err != nil {
		if err == domain.ErrShipmentNotFound {
			return nil, errors.ErrNotFoundWithID("shipment", shipmentID)
		}
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}

	return ToShipmentDTO(shipment), nil
}

// List returns shipments visible to the caller, newest first. The limit
// is capped at 50 no matter what was requested.
func (s *ShipmentApplicationService) List(ctx context.Context, caller *identity.Identity, limit int64) ([]ShipmentDTO, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	shipments, err := s.shipments.List(ctx, identity.ScopeFor(caller), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}

	dtos := make([]ShipmentDTO, len(shipments))
	for i := range shipments {
		dtos[i] = *ToShipmentDTO(&shipments[i])
	}
	return dtos, nil
}

// Search runs a case-insensitive prefix match over shipment ids and
// tracking numbers. An empty query returns an empty set, not an error.
func (s *ShipmentApplicationService) Search(ctx context.Context, caller *identity.Identity, query string) ([]ShipmentSummaryDTO, error) {
	if strings.TrimSpace(query) == "" {
		return []ShipmentSummaryDTO{}, nil
	}

	shipments, err := s.shipments.SearchPrefix(ctx, identity.ScopeFor(caller), query, maxSearchResults)
	if err != nil {
		return nil, fmt.Errorf("failed to search shipments: %w", err)
	}

	summaries := make([]ShipmentSummaryDTO, len(shipments))
	for i := range shipments {
		summaries[i] = ToShipmentSummaryDTO(&shipments[i])
	}
	return summaries, nil
}

// History returns a shipment's append-only event log. An unknown shipment
// yields an empty set.
func (s *ShipmentApplicationService) History(ctx context.Context, shipmentID string) ([]TrackingEventDTO, error) {
	events, err := s.history.ListByShipment(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tracking history: %w", err)
	}

	dtos := make([]TrackingEventDTO, len(events))
	for i := range events {
		dtos[i] = ToTrackingEventDTO(&events[i])
	}
	return dtos, nil
}

// Quote returns a fixed placeholder quote. Real pricing lives in a
// separate rating system.
func (s *ShipmentApplicationService) Quote(_ context.Context, cmd QuoteCommand) *QuoteDTO {
	return &QuoteDTO{
		OriginCountry:      strings.ToUpper(cmd.OriginCountry),
		DestinationCountry: strings.ToUpper(cmd.DestinationCountry),
		WeightKg:           cmd.WeightKg,
		Amount:             25.00,
		Currency:           "USD",
		Disclaimer:         "placeholder quote, not a binding rate",
	}
}
