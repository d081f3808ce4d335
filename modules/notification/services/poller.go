package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/arkiflo/arkiflo/modules/core/domain/entities/tenant"
	"github.com/arkiflo/arkiflo/modules/notification/domain/entities/notification"
	"github.com/arkiflo/arkiflo/modules/services/domain/aggregates/request"
	"github.com/arkiflo/arkiflo/pkg/composables"
)

// Poller runs a sweep function on a fixed interval until its context is
// cancelled. The first sweep runs one interval after Start, not immediately.
type Poller struct {
	interval time.Duration
	sweep    func(ctx context.Context)
	log      *logrus.Logger
	done     chan struct{}
}

func NewPoller(interval time.Duration, log *logrus.Logger, sweep func(ctx context.Context)) *Poller {
	return &Poller{
		interval: interval,
		sweep:    sweep,
		log:      log,
		done:     make(chan struct{}),
	}
}

func (p *Poller) Start(ctx context.Context) {
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.sweep(ctx)
			}
		}
	}()
}

// Wait blocks until the poller goroutine has exited.
func (p *Poller) Wait() {
	<-p.done
}

// SLASweeper files a notification to the assignee of every in-progress
// service request whose resolution window lapsed since the previous sweep.
// Each tenant is swept in its own scope; the first sweep after a restart
// resumes from the newest breach notification on record, so windows that
// lapsed while the process was down still notify exactly once.
type SLASweeper struct {
	tenants       tenant.Repository
	requests      request.Repository
	notifications *NotificationService
	pool          *pgxpool.Pool
	log           *logrus.Logger
	lastSweep     map[uuid.UUID]time.Time
}

func NewSLASweeper(tenants tenant.Repository, requests request.Repository, notifications *NotificationService, pool *pgxpool.Pool, log *logrus.Logger) *SLASweeper {
	return &SLASweeper{
		tenants:       tenants,
		requests:      requests,
		notifications: notifications,
		pool:          pool,
		log:           log,
		lastSweep:     map[uuid.UUID]time.Time{},
	}
}

func (s *SLASweeper) Sweep(ctx context.Context) {
	if s.pool != nil {
		ctx = composables.WithPool(ctx, s.pool)
	}
	var tenants []*tenant.Tenant
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		var err error
		tenants, err = s.tenants.GetAll(txCtx)
		return err
	})
	if err != nil {
		s.log.WithError(err).Error("listing tenants for resolution window sweep")
		return
	}
	for _, t := range tenants {
		s.sweepTenant(composables.WithTenantID(ctx, t.ID()), t.ID())
	}
}

func (s *SLASweeper) sweepTenant(ctx context.Context, tenantID uuid.UUID) {
	now := time.Now()
	var breached []*request.Request
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		since, ok := s.lastSweep[tenantID]
		if !ok {
			var err error
			since, err = s.notifications.repo.LatestOfKind(txCtx, notification.KindSLABreached)
			if err != nil {
				return err
			}
		}
		open, err := s.requests.GetPaginated(txCtx, &request.FindParams{
			Limit:  1000,
			Status: request.StatusInProgress,
		})
		if err != nil {
			return err
		}
		for _, r := range open {
			if r.Assignee() == uuid.Nil {
				continue
			}
			if r.SLADue().After(since) && !r.SLADue().After(now) {
				breached = append(breached, r)
			}
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).Error("sweeping service requests for missed resolution windows")
		return
	}
	s.lastSweep[tenantID] = now

	for _, r := range breached {
		n := notification.New(
			r.Assignee(),
			notification.KindSLABreached,
			"Service request missed its resolution window: "+r.Title(),
			notification.WithTenantID(r.TenantID()),
		)
		if err := s.notifications.Notify(ctx, n); err != nil {
			s.log.WithError(err).Error("notifying missed resolution window")
		}
	}
}
