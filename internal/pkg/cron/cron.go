package cron

import (
	"context"
	"fmt"
	"time"

	robfig "github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// PlanExpirer flips ACTIVE plans past their expiry to EXPIRED.
type PlanExpirer interface {
	ExpireOverdue() (int64, error)
}

// InvitationExpirer marks pending invitations past their deadline expired.
type InvitationExpirer interface {
	ExpirePending(now time.Time) (int64, error)
}

type Service struct {
	scheduler      *robfig.Cron
	plans          PlanExpirer
	invitations    InvitationExpirer
	planSpec       string
	invitationSpec string
	now            func() time.Time
}

func NewService(plans PlanExpirer, invitations InvitationExpirer, planSpec, invitationSpec string) *Service {
	return &Service{
		scheduler:      robfig.New(robfig.WithChain(robfig.Recover(robfig.DefaultLogger))),
		plans:          plans,
		invitations:    invitations,
		planSpec:       planSpec,
		invitationSpec: invitationSpec,
		now:            time.Now,
	}
}

// Start registers the jobs and starts the scheduler. An empty spec disables
// the matching job.
func (s *Service) Start() error {
	if s.planSpec != "" && s.plans != nil {
		if _, err := s.scheduler.AddFunc(s.planSpec, s.expirePlans); err != nil {
			return fmt.Errorf("schedule plan expiry %q: %w", s.planSpec, err)
		}
	}
	if s.invitationSpec != "" && s.invitations != nil {
		if _, err := s.scheduler.AddFunc(s.invitationSpec, s.expireInvitations); err != nil {
			return fmt.Errorf("schedule invitation cleanup %q: %w", s.invitationSpec, err)
		}
	}

	s.scheduler.Start()
	log.Info().Int("jobs", len(s.scheduler.Entries())).Msg("cron service started")
	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Service) Stop(ctx context.Context) {
	select {
	case <-s.scheduler.Stop().Done():
	case <-ctx.Done():
	}
	log.Info().Msg("cron service stopped")
}

func (s *Service) expirePlans() {
	n, err := s.plans.ExpireOverdue()
	if err != nil {
		log.Error().Err(err).Msg("plan expiry sweep failed")
		return
	}
	if n > 0 {
		log.Info().Int64("expired", n).Msg("plan expiry sweep")
	}
}

func (s *Service) expireInvitations() {
	n, err := s.invitations.ExpirePending(s.now())
	if err != nil {
		log.Error().Err(err).Msg("invitation cleanup failed")
		return
	}
	if n > 0 {
		log.Info().Int64("expired", n).Msg("invitation cleanup")
	}
}

// RunNow runs every job once, synchronously.
func (s *Service) RunNow() {
	if s.plans != nil {
		s.expirePlans()
	}
	if s.invitations != nil {
		s.expireInvitations()
	}
}
