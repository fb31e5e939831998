// Package scheduler runs the eleven periodic jobs from §4.4: idempotent
// pure functions of (context, now) that sweep engagements, payments, and
// Q&A records for work to do. Every job commits its own transaction and
// never duplicates an event or payment on re-run.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/wex-clearinghouse/core/pkg/config"
)

// Scheduler wraps a robfig/cron instance, registering each named job
// from config.SchedulerConfig.Jobs against its cron expression.
type Scheduler struct {
	cron *cron.Cron
	jobs *Jobs
	log  *slog.Logger
}

// New builds a Scheduler from its job cadences and the Jobs dependency
// bundle that implements each one.
func New(cfg config.SchedulerConfig, jobs *Jobs) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), jobs: jobs, log: slog.With("component", "scheduler")}

	registry := map[string]func(context.Context) (int, error){
		"deal_ping_deadline":    jobs.DealPingDeadline,
		"general_deadline":      jobs.GeneralDeadline,
		"tour_reminders":        jobs.TourReminders,
		"post_tour_follow_up":   jobs.PostTourFollowUp,
		"qa_supplier_deadline":  jobs.QASupplierDeadline,
		"qa_knowledge_backfill": jobs.QAKnowledgeBackfill,
		"payment_generation":    jobs.PaymentGeneration,
		"payment_reminders":     jobs.PaymentReminders,
		"stale_engagement_flag": jobs.StaleEngagementFlag,
		"auto_activate_leases":  jobs.AutoActivateLeases,
		"renewal_prompts":       jobs.RenewalPrompts,
	}

	for name, spec := range cfg.Jobs {
		fn, ok := registry[name]
		if !ok {
			s.log.Warn("unknown scheduler job in config, skipping", "job", name)
			continue
		}
		jobName, jobFn := name, fn
		_, err := s.cron.AddFunc(spec, func() { s.run(jobName, jobFn) })
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) run(name string, fn func(context.Context) (int, error)) {
	n, err := fn(context.Background())
	if err != nil {
		s.log.Error("scheduler job failed", "job", name, "error", err)
		return
	}
	if n > 0 {
		s.log.Info("scheduler job completed", "job", name, "records", n)
	}
}

// Start begins running registered jobs on their cron schedules.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the scheduler, waiting for any in-flight job to finish.
func (s *Scheduler) Stop() { <-s.cron.Stop().Done() }
