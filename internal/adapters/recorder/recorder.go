// Package recorder persists allocation outcomes. Persistence here is
// best-effort, at-most-once bookkeeping: the allocation decision has already
// been returned to the caller, so store failures are logged and counted but
// never raised back up.
package recorder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/okian/roundup/internal/adapters/store"
	"github.com/okian/roundup/internal/domain/model"
	"github.com/okian/roundup/pkg/logger"
	"github.com/okian/roundup/pkg/metrics"
)

const (
	teamsCollection        = "teams"
	bountiesCollection     = "bounties"
	assignmentsCollection  = "assignments"
	workloadField          = "current_workload"
	asyncPersistenceBudget = 10 * time.Second
)

// Persistence outcome labels reported to metrics.
const (
	outcomeRecorded = "recorded"
	outcomeSkipped  = "skipped"
	outcomeFailed   = "failed"
)

// Outcome reports what happened to one persistence attempt. It is delivered
// on the channel returned by RecordAsync so tests and operators can observe
// the fire-and-forget path without timing assumptions.
type Outcome struct {
	// Skipped is set when the assignment carried no team reference and no
	// writes were attempted.
	Skipped bool
	// RecordID is the id of the appended history record on success.
	RecordID string
	// Err holds the first store failure, for observability only; it is never
	// propagated to the allocation caller.
	Err error
}

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithTenant scopes writes to the given tenant partition.
func WithTenant(tenant string) Option {
	return func(r *Recorder) {
		if tenant != "" {
			r.tenant = tenant
		}
	}
}

// WithLogger sets a custom logger for the recorder.
func WithLogger(log logger.Logger) Option {
	return func(r *Recorder) {
		if log != nil {
			r.log = log
		}
	}
}

// Recorder writes assignment outcomes to the record store.
type Recorder struct {
	store  store.Store
	tenant string
	log    logger.Logger
}

// New creates a Recorder backed by the given store.
func New(st store.Store, opts ...Option) *Recorder {
	r := &Recorder{
		store:  st,
		tenant: "default",
		log:    logger.Get(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record performs the three related writes for an assignment: mark the bounty
// assigned, append an immutable history record, and bump the winning team's
// workload by one through the store's atomic add. A missing team reference
// skips all writes. No error is returned; the Outcome carries the result.
func (r *Recorder) Record(ctx context.Context, bountyID string, assignment *model.Assignment) Outcome {
	if assignment == nil || assignment.Team.ID == "" {
		r.log.Info(ctx, "assignment missing team reference; skipping persistence",
			logger.String("bounty_id", bountyID))
		metrics.RecordPersistenceOutcome(outcomeSkipped)
		return Outcome{Skipped: true}
	}

	teamID := assignment.Team.ID
	now := time.Now().UTC()

	if err := r.store.SetMerge(ctx, r.tenant, bountiesCollection, bountyID, map[string]any{
		"status":         model.BountyStatusAssigned,
		"assignedTeamId": teamID,
		"updatedAt":      now,
	}); err != nil {
		return r.fail(ctx, bountyID, "mark bounty assigned", err)
	}

	recordID, err := r.store.AppendChild(ctx, r.tenant, bountiesCollection, bountyID, assignmentsCollection, map[string]any{
		"id":        uuid.NewString(),
		"teamId":    teamID,
		"fitScore":  assignment.FitScore,
		"reasoning": assignment.Reasoning,
		"allScores": assignment.Scores,
		"createdAt": now,
	})
	if err != nil {
		return r.fail(ctx, bountyID, "append assignment record", err)
	}

	if err := r.store.AtomicIncrement(ctx, r.tenant, teamsCollection, teamID, workloadField, 1); err != nil {
		return r.fail(ctx, bountyID, "increment team workload", err)
	}

	metrics.RecordPersistenceOutcome(outcomeRecorded)
	r.log.Debug(ctx, "assignment persisted",
		logger.String("bounty_id", bountyID),
		logger.String("team_id", teamID),
		logger.String("record_id", recordID))
	return Outcome{RecordID: recordID}
}

// RecordAsync runs Record in a goroutine and reports the outcome on a
// buffered channel. The write is detached from the request's cancellation but
// bounded by its own budget, so an aborted request cannot leave a write
// running forever.
func (r *Recorder) RecordAsync(ctx context.Context, bountyID string, assignment *model.Assignment) <-chan Outcome {
	out := make(chan Outcome, 1)
	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), asyncPersistenceBudget)
	go func() {
		defer cancel()
		out <- r.Record(detached, bountyID, assignment)
		close(out)
	}()
	return out
}

func (r *Recorder) fail(ctx context.Context, bountyID, op string, err error) Outcome {
	metrics.RecordPersistenceOutcome(outcomeFailed)
	r.log.Warn(ctx, "assignment persistence failed",
		logger.String("bounty_id", bountyID),
		logger.String("operation", op),
		logger.Error(err))
	return Outcome{Err: err}
}
