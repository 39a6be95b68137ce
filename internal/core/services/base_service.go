package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/domohq/domo_backend/internal/apperrors"
	"github.com/domohq/domo_backend/internal/core/domain"
	"github.com/domohq/domo_backend/internal/core/ports/events"
	portsrepo "github.com/domohq/domo_backend/internal/core/ports/repositories"
	"github.com/domohq/domo_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	members  portsrepo.HouseholdReader
	clock    func() time.Time
	location *time.Location
	events   events.Publisher
}

// ServiceOption is a functional option shared by every service constructor
type ServiceOption func(*BaseService)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.clock = clock
	}
}

// WithBillingLocation sets the location "today" is computed in for due dates.
func WithBillingLocation(loc *time.Location) ServiceOption {
	return func(s *BaseService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithEventPublisher makes the service announce committed ledger changes.
func WithEventPublisher(p events.Publisher) ServiceOption {
	return func(s *BaseService) {
		s.events = p
	}
}

func newBaseService(members portsrepo.HouseholdReader, options ...ServiceOption) BaseService {
	base := BaseService{members: members, clock: time.Now, location: time.UTC}
	for _, option := range options {
		option(&base)
	}
	return base
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now is the audit timestamp.
func (s *BaseService) Now() time.Time {
	return s.clock().UTC()
}

// Today is the calendar date in the billing location.
func (s *BaseService) Today() time.Time {
	return domain.DateOf(s.clock().In(s.location))
}

// RequireMember checks that the user belongs to the household. Unknown households and
// foreign households are reported the same way.
func (s *BaseService) RequireMember(ctx context.Context, householdID, userID string) error {
	if householdID == "" || userID == "" {
		return fmt.Errorf("%w: household and user are required", apperrors.ErrForbidden)
	}
	if _, err := s.members.FindMembership(ctx, householdID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User is not a member of the household",
				slog.String("user_id", userID),
				slog.String("household_id", householdID))
			return fmt.Errorf("%w: user %s is not a member of household %s", apperrors.ErrForbidden, userID, householdID)
		}
		s.LogError(ctx, err, "Failed to check household membership", slog.String("household_id", householdID))
		return apperrors.Internal("failed to check household membership", err)
	}
	return nil
}

// Publish announces a committed change. Delivery failures are logged only: the
// ledger change is already durable.
func (s *BaseService) Publish(ctx context.Context, householdID, userID, eventType string, payload any) {
	if s.events == nil {
		return
	}
	evt := events.Event{
		Type:        eventType,
		HouseholdID: householdID,
		UserID:      userID,
		OccurredAt:  s.Now(),
		Payload:     payload,
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.LogError(ctx, err, "Failed to publish ledger event", slog.String("event_type", eventType))
	}
}

// storeError converts a repository failure into the error the caller sees. Known
// kinds pass through; anything else becomes an opaque internal error.
func (s *BaseService) storeError(ctx context.Context, err error, msg string, keyvals ...any) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		apperrors.ErrValidation, apperrors.ErrNotFound, apperrors.ErrDuplicate, apperrors.ErrForbidden,
		apperrors.ErrInsufficientFunds, apperrors.ErrInsufficientCreditLimit, apperrors.ErrInternal,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.LogError(ctx, err, msg, keyvals...)
	return apperrors.Internal(msg, err)
}

// notFoundAs replaces a generic ErrNotFound with a more specific kind.
func notFoundAs(err, kind error, id string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %s", kind, id)
	}
	return err
}
