// Package batch drives sequences of generation calls with retries, collecting
// partial results.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/normalize"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/prompts"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/provider"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

// Ledger is the subset of credit.Ledger the orchestrator charges against.
type Ledger interface {
	Precheck(ctx context.Context, userID uuid.UUID, estimated int) error
	Debit(ctx context.Context, userID uuid.UUID, actual int) (int64, error)
}

type UnitResult struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Lessons  []domain.Lesson `json:"lessons"`
	Attempts int             `json:"attempts"`
}

type FailedUnit struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

type Report struct {
	BatchID     uuid.UUID       `json:"batchId"`
	Succeeded   []UnitResult    `json:"succeeded"`
	Items       []domain.Lesson `json:"items"`
	FailedUnits []FailedUnit    `json:"failedUnits"`
	Charged     int64           `json:"charged"`
	Cancelled   bool            `json:"cancelled"`
}

// UnitFunc observes each successful unit as soon as it completes.
type UnitFunc func(ctx context.Context, res UnitResult)

type Orchestrator struct {
	provider provider.Provider
	ledger   Ledger
	policy   RetryPolicy
	log      *logger.Logger
	tracer   trace.Tracer
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewOrchestrator(p provider.Provider, ledger Ledger, policy RetryPolicy, baseLog *logger.Logger) *Orchestrator {
	return &Orchestrator{
		provider: p,
		ledger:   ledger,
		policy:   policy,
		log:      baseLog.With("service", "BatchOrchestrator"),
		tracer:   otel.Tracer("curriculum/batch"),
		sleep:    sleepCtx,
	}
}

func (o *Orchestrator) Policy() RetryPolicy { return o.policy }

// Run processes units strictly in order. A unit that fails every attempt is
// recorded and the batch moves on; only an insufficient balance (or a ledger
// read failure) aborts, returning the partial report with the error.
//
// Cancelling ctx stops the batch before the next unit. A call already in
// flight runs to completion and its result is kept.
func (o *Orchestrator) Run(ctx context.Context, userID, batchID uuid.UUID, units []Unit, onUnit UnitFunc) (Report, error) {
	report := Report{BatchID: batchID}
	log := o.log.With("batch_id", batchID, "user_id", userID)
	log.Info("Batch started", "units", len(units))

	for i, unit := range units {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		if err := o.ledger.Precheck(ctx, userID, unit.Estimate()); err != nil {
			log.Warn("Batch aborted at credit precheck", "unit", unit.Code, "error", err)
			return report, err
		}

		res, err := o.runUnit(ctx, unit)
		if err != nil {
			log.Warn("Unit failed", "unit", unit.Code, "attempts", res.Attempts, "error", err)
			report.FailedUnits = append(report.FailedUnits, FailedUnit{Code: unit.Code, Name: unit.Name, Error: err.Error()})
		} else {
			// debit on a detached context so a cancelled batch still pays for delivered lessons
			if _, derr := o.ledger.Debit(context.WithoutCancel(ctx), userID, len(res.Lessons)); derr != nil {
				log.Error("Credit debit failed", "unit", unit.Code, "lessons", len(res.Lessons), "error", derr)
			} else {
				report.Charged += int64(len(res.Lessons))
			}
			report.Succeeded = append(report.Succeeded, res)
			report.Items = append(report.Items, res.Lessons...)
			if onUnit != nil {
				onUnit(context.WithoutCancel(ctx), res)
			}
		}

		if i < len(units)-1 && o.policy.InterUnitDelay > 0 {
			if err := o.sleep(ctx, o.policy.InterUnitDelay); err != nil {
				report.Cancelled = true
				break
			}
		}
	}

	log.Info("Batch finished",
		"succeeded", len(report.Succeeded),
		"failed", len(report.FailedUnits),
		"lessons", len(report.Items),
		"charged", report.Charged,
		"cancelled", report.Cancelled,
	)
	return report, nil
}

func (o *Orchestrator) runUnit(ctx context.Context, unit Unit) (UnitResult, error) {
	ctx, span := o.tracer.Start(ctx, "batch.unit", trace.WithAttributes(
		attribute.String("unit.code", unit.Code),
		attribute.String("unit.stage", string(unit.Request.Stage)),
		attribute.Int("unit.estimate", unit.Estimate()),
	))
	defer span.End()

	res := UnitResult{Code: unit.Code, Name: unit.Name}
	out, attempts, err := o.generate(ctx, unit.Request)
	res.Attempts = attempts
	span.SetAttributes(attribute.Int("unit.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return res, err
	}
	res.Lessons = out.Lessons
	span.SetAttributes(attribute.Int("unit.lessons", len(res.Lessons)))
	return res, nil
}

// RunSingle drives one request with the same retry policy.
func (o *Orchestrator) RunSingle(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	ctx, span := o.tracer.Start(ctx, "batch.single", trace.WithAttributes(
		attribute.String("stage", string(req.Stage)),
	))
	defer span.End()

	res, attempts, err := o.generate(ctx, req)
	span.SetAttributes(attribute.Int("attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

// generate builds, calls and parses with retries. Malformed requests are not
// retried. The provider call itself is not cancelled by ctx.
func (o *Orchestrator) generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, int, error) {
	prompt, err := prompts.Build(req)
	if err != nil {
		return domain.GenerationResult{}, 0, err
	}
	callCtx := context.WithoutCancel(ctx)

	var lastErr error
	attempt := 0
	for attempt < o.policy.attempts() {
		attempt++
		raw, err := o.provider.Generate(callCtx, provider.Payload{System: prompt.System, User: prompt.User}, prompt.Mode)
		if err != nil {
			lastErr = apperrors.ProviderCallFailed(err)
		} else {
			res, perr := normalize.Normalize(raw, req)
			if perr == nil {
				return res, attempt, nil
			}
			lastErr = perr
		}
		if !apperrors.Retryable(lastErr) || attempt >= o.policy.attempts() {
			break
		}
		o.log.Debug("Retrying generation", "stage", req.Stage, "attempt", attempt, "error", lastErr)
		if err := o.sleep(ctx, o.policy.Backoff); err != nil {
			break
		}
	}
	return domain.GenerationResult{}, attempt, fmt.Errorf("%s after %d attempt(s): %w", req.Stage, attempt, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
