package services

import (
	"context"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/batch"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

// ProgressSink receives a snapshot after every unit and once when a batch ends.
type ProgressSink interface {
	Publish(ctx context.Context, p batch.Progress) error
}

type logProgressSink struct {
	log *logger.Logger
}

func NewLogProgressSink(baseLog *logger.Logger) ProgressSink {
	return &logProgressSink{log: baseLog.With("service", "ProgressSink")}
}

func (s *logProgressSink) Publish(_ context.Context, p batch.Progress) error {
	s.log.Info("Batch progress",
		"batch_id", p.BatchID,
		"status", p.Status,
		"completed_units", p.CompletedUnits,
		"total_units", p.TotalUnits,
		"lessons", p.Lessons,
	)
	return nil
}

// multiSink fans out to every sink and returns the first error.
type multiSink []ProgressSink

func NewMultiProgressSink(sinks ...ProgressSink) ProgressSink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (m multiSink) Publish(ctx context.Context, p batch.Progress) error {
	var first error
	for _, s := range m {
		if err := s.Publish(ctx, p); err != nil && first == nil {
			first = err
		}
	}
	return first
}
