package complaint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
)

// ErrInvalid marks a complaint rejected by validation.
var ErrInvalid = errors.New("invalid complaint")

// Service is the business boundary for complaint operations.
type Service struct {
	store    Store
	logger   log.Logger
	metrics  *Metrics
	notifier Notifier
	now      func() time.Time
	pending  sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records service counters on m.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithNotifier announces every created complaint through n.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new complaint service.
func NewService(store Store, logger log.Logger, opts ...Option) *Service {
	if store == nil {
		panic(xerrors.New("complaint store is required"))
	}
	if logger == nil {
		logger = log.Nop()
	}
	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Create validates nc and files it as a new Pending complaint.
func (s *Service) Create(ctx context.Context, nc NewComplaint) (*Complaint, error) {
	if err := validate(&nc); err != nil {
		s.observeCreate("invalid", "")
		return nil, err
	}

	level := strings.TrimSpace(nc.Level)
	if level == "" {
		level = DefaultLevel
	}

	c, err := s.store.Insert(ctx, &Complaint{
		Type:        nc.Type,
		Location:    nc.Location,
		Description: nc.Description,
		Latitude:    nc.Latitude,
		Longitude:   nc.Longitude,
		Level:       level,
		Status:      StatusPending,
		CreatedAt:   s.now(),
	})
	if err != nil {
		s.observeCreate("error", level)
		return nil, fmt.Errorf("insert complaint: %w", err)
	}
	s.observeCreate("created", level)

	L := s.logger.With("complaint_id", c.ID, "type", c.Type)
	L.Info(ctx, "complaint filed", "level", c.Level, "location", c.Location)

	if s.notifier != nil {
		cp := *c
		s.pending.Add(1)
		go s.notify(context.WithoutCancel(ctx), L, &cp)
	}
	return c, nil
}

func (s *Service) notify(ctx context.Context, L log.Logger, c *Complaint) {
	defer s.pending.Done()
	if err := s.notifier.Send(ctx, c); err != nil {
		L.Error(ctx, err, "failed to notify about complaint")
	}
}

// Wait blocks until notifications started by Create have finished or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for complaint notifications: %w", ctx.Err())
	}
}

// ListActive returns the complaints shown on the police dashboard.
func (s *Service) ListActive(ctx context.Context) ([]*Complaint, error) {
	return s.list(ctx, "active", ActiveStatuses...)
}

// ListPending returns complaints nobody has picked up yet.
func (s *Service) ListPending(ctx context.Context) ([]*Complaint, error) {
	return s.list(ctx, "pending", StatusPending)
}

func (s *Service) list(ctx context.Context, view string, statuses ...Status) ([]*Complaint, error) {
	out, err := s.store.ListByStatus(ctx, statuses...)
	if err != nil {
		return nil, fmt.Errorf("list %s complaints: %w", view, err)
	}
	if out == nil {
		out = []*Complaint{}
	}
	if s.metrics != nil {
		s.metrics.Listed.WithLabelValues(view).Observe(float64(len(out)))
	}
	return out, nil
}

func (s *Service) observeCreate(result, level string) {
	if s.metrics == nil {
		return
	}
	s.metrics.CreatesTotal.WithLabelValues(result).Inc()
	if result == "created" {
		s.metrics.CreatedByLevel.WithLabelValues(levelLabel(level)).Inc()
	}
}

// levelLabel bounds metric cardinality, level is free text from the client.
func levelLabel(level string) string {
	switch level {
	case "alert-high", "alert-med", "alert-low":
		return level
	}
	return "other"
}

func validate(nc *NewComplaint) error {
	var errs []error
	if strings.TrimSpace(nc.Type) == "" {
		errs = append(errs, errors.New("type is required"))
	}
	if strings.TrimSpace(nc.Location) == "" {
		errs = append(errs, errors.New("location is required"))
	}
	if strings.TrimSpace(nc.Description) == "" {
		errs = append(errs, errors.New("description is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}
