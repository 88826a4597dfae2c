package service

import (
	"context"
	"time"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
)

type compensation struct {
	step string
	undo func(ctx context.Context) error
}

// saga records an undo action for every completed remote write so a failed
// workflow can unwind what it already did, newest first.
type saga struct {
	name   string
	log    logger.ILogger
	now    func() time.Time
	fields []logger.Field
	undo   []compensation
}

func newSaga(name string, log logger.ILogger, now func() time.Time, fields ...logger.Field) *saga {
	return &saga{name: name, log: log, now: now, fields: fields}
}

func (s *saga) onFailure(step string, undo func(ctx context.Context) error) {
	s.undo = append(s.undo, compensation{step: step, undo: undo})
}

// rollback runs the recorded compensations in reverse. A compensation that
// fails leaves state for manual reconciliation and is logged as such; the
// remaining ones still run.
func (s *saga) rollback(ctx context.Context, failedStep string, cause error) {
	ctx = context.WithoutCancel(ctx)

	s.log.Warning(s.name+" failed, compensating",
		s.logFields(
			logger.String("step", failedStep),
			logger.Int("compensations", len(s.undo)),
			logger.Time("at", s.now()),
			logger.Error(cause),
		)...,
	)

	for i := len(s.undo) - 1; i >= 0; i-- {
		c := s.undo[i]
		if err := c.undo(ctx); err != nil {
			s.log.Error(s.name+" compensation failed, reconcile manually",
				s.logFields(
					logger.String("step", c.step),
					logger.Time("at", s.now()),
					logger.Error(err),
				)...,
			)
			continue
		}
		s.log.Info(s.name+" compensated",
			s.logFields(logger.String("step", c.step), logger.Time("at", s.now()))...,
		)
	}
	s.undo = nil
}

func (s *saga) logFields(extra ...logger.Field) []logger.Field {
	out := make([]logger.Field, 0, len(s.fields)+len(extra))
	out = append(out, s.fields...)
	return append(out, extra...)
}
