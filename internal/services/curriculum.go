package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/batch"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/distribution"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/prompts"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/staging"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
	apperrors "github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/errors"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
)

// CreditLedger is the subset of credit.Ledger the service needs.
type CreditLedger interface {
	Precheck(ctx context.Context, userID uuid.UUID, estimated int) error
	Debit(ctx context.Context, userID uuid.UUID, actual int) (int64, error)
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Generator is satisfied by *batch.Orchestrator.
type Generator interface {
	RunSingle(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
	Run(ctx context.Context, userID, batchID uuid.UUID, units []batch.Unit, onUnit batch.UnitFunc) (batch.Report, error)
}

type GenerateOutput struct {
	Result  domain.GenerationResult `json:"result"`
	Staged  *staging.MergeResult    `json:"staged,omitempty"`
	Balance *int64                  `json:"balance,omitempty"`
}

type CurriculumService interface {
	// Generate runs one stage. Lesson stages are credit-gated, and lesson or
	// discovery output is merged into the workspace when ws is set.
	Generate(ctx context.Context, userID uuid.UUID, ws string, req domain.GenerationRequest) (GenerateOutput, error)
	// RunLessonBatch distributes req.TotalLessonCount across req.SubUnits and
	// generates each share in order, staging results as they arrive.
	RunLessonBatch(ctx context.Context, userID uuid.UUID, ws string, req domain.GenerationRequest) (batch.Report, error)
	// StartLessonBatch is RunLessonBatch in the background. Progress is polled
	// with BatchProgress.
	StartLessonBatch(ctx context.Context, userID uuid.UUID, ws string, req domain.GenerationRequest) (batch.Progress, error)
	BatchProgress(ctx context.Context, userID, batchID uuid.UUID) (batch.Progress, error)
	CancelBatch(ctx context.Context, userID, batchID uuid.UUID) error
	Balance(ctx context.Context, userID uuid.UUID) (int64, error)
	// Shutdown cancels background batches and waits for them to stop.
	Shutdown(ctx context.Context) error
}

type curriculumService struct {
	log     *logger.Logger
	gen     Generator
	ledger  CreditLedger
	staging StagingService
	tracker *batch.Tracker
	sink    ProgressSink

	root       context.Context
	cancelRoot context.CancelFunc
	wg         sync.WaitGroup

	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
}

func NewCurriculumService(
	baseLog *logger.Logger,
	gen Generator,
	ledger CreditLedger,
	stagingSvc StagingService,
	tracker *batch.Tracker,
	sink ProgressSink,
) CurriculumService {
	if sink == nil {
		sink = NewLogProgressSink(baseLog)
	}
	root, cancel := context.WithCancel(context.Background())
	return &curriculumService{
		log:        baseLog.With("service", "CurriculumService"),
		gen:        gen,
		ledger:     ledger,
		staging:    stagingSvc,
		tracker:    tracker,
		sink:       sink,
		root:       root,
		cancelRoot: cancel,
		cancels:    map[uuid.UUID]context.CancelFunc{},
	}
}

func (s *curriculumService) Generate(ctx context.Context, userID uuid.UUID, ws string, req domain.GenerationRequest) (GenerateOutput, error) {
	stage, err := domain.ParseStage(string(req.Stage))
	if err != nil {
		return GenerateOutput{}, err
	}
	req.Stage = stage
	if _, err := prompts.Build(req); err != nil {
		return GenerateOutput{}, err
	}

	if stage.CreditGated() {
		if err := s.ledger.Precheck(ctx, userID, batch.Unit{Request: req}.Estimate()); err != nil {
			return GenerateOutput{}, err
		}
	}
	res, err := s.gen.RunSingle(ctx, req)
	if err != nil {
		return GenerateOutput{}, err
	}
	out := GenerateOutput{Result: res}

	if stage.CreditGated() {
		bal, err := s.ledger.Debit(context.WithoutCancel(ctx), userID, len(res.Lessons))
		if err != nil {
			s.log.Error("Credit debit failed", "user_id", userID, "lessons", len(res.Lessons), "error", err)
		} else {
			out.Balance = &bal
		}
	}

	if strings.TrimSpace(ws) != "" {
		staged, err := s.stageResult(ctx, ws, req, res)
		if err != nil {
			return out, fmt.Errorf("stage %s result: %w", stage, err)
		}
		out.Staged = staged
	}
	return out, nil
}

// stageResult merges lesson and discovery output. Item lists are not staged.
func (s *curriculumService) stageResult(ctx context.Context, ws string, req domain.GenerationRequest, res domain.GenerationResult) (*staging.MergeResult, error) {
	var lessons []domain.Lesson
	var units []domain.SubUnit
	switch res.Kind {
	case domain.KindLessonList:
		lessons = res.Lessons
		units = requestSubUnits(req)
	case domain.KindDiscovery:
		if res.Discovery == nil {
			return nil, nil
		}
		units = res.Discovery.SubUnits
	default:
		return nil, nil
	}
	key := sectionKey(req)
	if key == "" {
		return nil, nil
	}
	if _, err := s.staging.FillHeader(ctx, ws, headerOf(req)); err != nil {
		return nil, err
	}
	mr, err := s.staging.Merge(ctx, ws, key, sectionName(req), lessons, units)
	if err != nil {
		return nil, err
	}
	return &mr, nil
}

func (s *curriculumService) RunLessonBatch(ctx context.Context, userID uuid.UUID, ws string, req domain.GenerationRequest) (batch.Report, error) {
	units, err := s.prepareBatch(ctx, userID, req)
	if err != nil {
		return batch.Report{}, err
	}
	batchID := uuid.New()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.track(batchID, cancel)
	defer s.untrack(batchID)
	return s.runBatch(runCtx, userID, ws, batchID, req, units)
}

func (s *curriculumService) StartLessonBatch(ctx context.Context, userID uuid.UUID, ws string, req domain.GenerationRequest) (batch.Progress, error) {
	units, err := s.prepareBatch(ctx, userID, req)
	if err != nil {
		return batch.Progress{}, err
	}
	if s.root.Err() != nil {
		return batch.Progress{}, apperrors.InvalidInput("service is shutting down")
	}
	batchID := uuid.New()
	p := s.tracker.Start(batchID, userID, len(units))

	// keep request values (trace, ids) but not the request's lifetime
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(s.root, cancel)
	s.track(batchID, cancel)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer stop()
		defer cancel()
		defer s.untrack(batchID)
		if _, err := s.runBatch(runCtx, userID, ws, batchID, req, units); err != nil {
			s.log.Warn("Background batch ended with error", "batch_id", batchID, "error", err)
		}
	}()
	return p, nil
}

// prepareBatch validates, checks the caller can afford the whole batch and
// splits it into units.
func (s *curriculumService) prepareBatch(ctx context.Context, userID uuid.UUID, req domain.GenerationRequest) ([]batch.Unit, error) {
	if strings.TrimSpace(string(req.Stage)) == "" {
		req.Stage = domain.StageLessonsByStrand
	}
	stage, err := domain.ParseStage(string(req.Stage))
	if err != nil {
		return nil, err
	}
	if !stage.ProducesLessons() {
		return nil, apperrors.InvalidInput("batch stage must produce lessons, got %q", stage)
	}
	req.Stage = stage

	total := req.TotalLessonCount
	if total <= 0 {
		for _, u := range req.SubUnits {
			total += u.TargetLessonCount
		}
	}
	total = distribution.ClampTotal(total)

	allocs, err := distribution.Distribute(total, req.SubUnits)
	if err != nil {
		return nil, err
	}
	units := batch.UnitsFor(req, allocs)
	if _, err := prompts.Build(units[0].Request); err != nil {
		return nil, err
	}
	if err := s.ledger.Precheck(ctx, userID, total); err != nil {
		return nil, err
	}
	return units, nil
}

func (s *curriculumService) runBatch(ctx context.Context, userID uuid.UUID, ws string, batchID uuid.UUID, req domain.GenerationRequest, units []batch.Unit) (batch.Report, error) {
	if _, ok := s.tracker.Get(batchID); !ok {
		s.tracker.Start(batchID, userID, len(units))
	}
	if p, ok := s.tracker.Get(batchID); ok {
		s.publish(ctx, p)
	}
	stageTo := strings.TrimSpace(ws) != ""
	if stageTo {
		if _, err := s.staging.FillHeader(ctx, ws, headerOf(req)); err != nil {
			s.log.Warn("Staging header update failed", "workspace", ws, "error", err)
		}
	}

	byCode := make(map[string]batch.Unit, len(units))
	for _, u := range units {
		if _, ok := byCode[u.Code]; !ok {
			byCode[u.Code] = u
		}
	}

	onUnit := func(uctx context.Context, res batch.UnitResult) {
		if stageTo {
			unitReq := req
			if u, ok := byCode[res.Code]; ok {
				unitReq = u.Request
			}
			if _, err := s.staging.Merge(uctx, ws, sectionKey(unitReq), sectionName(unitReq), res.Lessons, requestSubUnits(unitReq)); err != nil {
				s.log.Error("Staging merge failed", "batch_id", batchID, "unit", res.Code, "error", err)
			}
		}
		if p, ok := s.tracker.UnitDone(batchID, len(res.Lessons)); ok {
			s.publish(uctx, p)
		}
	}

	report, err := s.gen.Run(ctx, userID, batchID, units, onUnit)
	if p, ok := s.tracker.Finish(batchID, report, err); ok {
		s.publish(context.WithoutCancel(ctx), p)
	}
	return report, err
}

func (s *curriculumService) publish(ctx context.Context, p batch.Progress) {
	if err := s.sink.Publish(ctx, p); err != nil {
		s.log.Warn("Progress publish failed", "batch_id", p.BatchID, "error", err)
	}
}

func (s *curriculumService) track(id uuid.UUID, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels[id] = cancel
}

func (s *curriculumService) untrack(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cancels, id)
}

func (s *curriculumService) BatchProgress(_ context.Context, userID, batchID uuid.UUID) (batch.Progress, error) {
	p, ok := s.tracker.Get(batchID)
	if !ok || p.UserID != userID {
		return batch.Progress{}, fmt.Errorf("batch %s: %w", batchID, apperrors.ErrNotFound)
	}
	return p, nil
}

func (s *curriculumService) CancelBatch(ctx context.Context, userID, batchID uuid.UUID) error {
	if _, err := s.BatchProgress(ctx, userID, batchID); err != nil {
		return err
	}
	s.mu.Lock()
	cancel, ok := s.cancels[batchID]
	s.mu.Unlock()
	if ok {
		cancel()
	}
	return nil
}

func (s *curriculumService) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.ledger.Balance(ctx, userID)
}

func (s *curriculumService) Shutdown(ctx context.Context) error {
	s.cancelRoot()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sectionKey picks the staging section a request's output belongs to.
func sectionKey(req domain.GenerationRequest) string {
	for _, k := range []string{req.SectionCode, req.SectionName, req.StrandCode} {
		if k = strings.TrimSpace(k); k != "" {
			return k
		}
	}
	if len(req.SubUnits) > 0 {
		return strings.TrimSpace(req.SubUnits[0].Code)
	}
	return ""
}

func sectionName(req domain.GenerationRequest) string {
	if n := strings.TrimSpace(req.SectionName); n != "" {
		return n
	}
	return strings.TrimSpace(req.StrandName)
}

func requestSubUnits(req domain.GenerationRequest) []domain.SubUnit {
	if req.Stage == domain.StageLessonsBySubstandards {
		return req.SubUnits
	}
	if strings.TrimSpace(req.StrandCode) == "" {
		return nil
	}
	return []domain.SubUnit{{
		Code:              req.StrandCode,
		Name:              req.StrandName,
		TargetLessonCount: req.TargetLessonCount,
		KeyTopics:         req.KeyTopics,
		PerformanceCodes:  req.PerformanceCodes,
	}}
}

func headerOf(req domain.GenerationRequest) domain.StagingHeader {
	return domain.StagingHeader{
		Subject:   req.Subject,
		Framework: req.Framework,
		Grade:     req.Grade,
		Region:    req.Region,
	}
}
