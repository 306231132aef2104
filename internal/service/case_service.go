package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"medrag-be/internal/constant"
	"medrag-be/internal/dto"
	"medrag-be/internal/entity"
	"medrag-be/internal/pkg/logger"
	"medrag-be/internal/repository/specification"
	"medrag-be/internal/repository/unitofwork"
	"medrag-be/pkg/events"
	"medrag-be/pkg/llm"
	pktNats "medrag-be/pkg/nats"
	ragcontext "medrag-be/pkg/rag/context"
	"medrag-be/pkg/rag/extract"
	"medrag-be/pkg/rag/prompt"
	"medrag-be/pkg/rag/retrieval"
	"medrag-be/pkg/store"
)

var (
	ErrCaseNotFound = errors.New("case not found")
	// ErrUpstreamGeneration marks a failure of the reasoning model call. The
	// case keeps its previous state when this is returned.
	ErrUpstreamGeneration = errors.New("diagnosis generation failed")
	ErrCaseNotDiagnosed   = errors.New("case has no diagnosis yet")
	ErrNoPatientEmail     = errors.New("patient has no email address")
)

type ICaseService interface {
	Diagnose(ctx context.Context, req *dto.DiagnoseRequest) (*dto.DiagnoseResponse, error)
	Submit(ctx context.Context, req *dto.SubmitCaseRequest) (*dto.CaseResponse, error)
	Regenerate(ctx context.Context, caseId string) (*dto.CaseResponse, error)
	Get(ctx context.Context, caseId string) (*dto.CaseResponse, error)
	List(ctx context.Context, req *dto.ListCasesRequest) (*dto.ListCasesResponse, error)
	Export(ctx context.Context, caseId string) ([]byte, string, error)
	Stats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	Notify(ctx context.Context, caseId string) error
}

type caseService struct {
	uowFactory       unitofwork.RepositoryFactory
	retriever        *retrieval.Client
	assembler        *ragcontext.Assembler
	llmProvider      llm.LLMProvider
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher // optional, nil when NATS is disabled
	logger           logger.ILogger

	caseLocks *keyedMutex
}

func NewCaseService(
	uowFactory unitofwork.RepositoryFactory,
	retriever *retrieval.Client,
	assembler *ragcontext.Assembler,
	llmProvider llm.LLMProvider,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) ICaseService {
	return &caseService{
		uowFactory:       uowFactory,
		retriever:        retriever,
		assembler:        assembler,
		llmProvider:      llmProvider,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
		caseLocks:        newKeyedMutex(),
	}
}

// runDiagnosis executes one full reasoning pass: retrieve, assemble context,
// prompt, generate, extract. Nothing is persisted here.
func (s *caseService) runDiagnosis(ctx context.Context, query string, k int) (*entity.DiagnosisRecord, []store.Fragment, error) {
	if k < 1 {
		k = constant.DefaultRetrievalK
	}

	fragments, err := s.retriever.Retrieve(ctx, query, k)
	if err != nil {
		return nil, nil, err
	}

	contextText := s.assembler.Assemble(fragments)
	diagnosticPrompt := prompt.BuildDiagnostic(query, contextText)

	output, err := s.llmProvider.Generate(ctx, diagnosticPrompt,
		llm.WithMaxTokens(constant.DiagnoseMaxOutputTokens))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUpstreamGeneration, err)
	}

	result := extract.Extract(output)
	matches := ragcontext.TopMatches(fragments)

	matchTexts := make([]string, len(matches))
	for i, m := range matches {
		matchTexts[i] = m.Text
	}

	record := &entity.DiagnosisRecord{
		Label:      result.Label,
		Rationale:  result.Rationale,
		Confidence: constant.FixedConfidence,
		Matches:    matchTexts,
	}
	return record, matches, nil
}

func (s *caseService) Diagnose(ctx context.Context, req *dto.DiagnoseRequest) (*dto.DiagnoseResponse, error) {
	record, matches, err := s.runDiagnosis(ctx, req.Query, req.K)
	if err != nil {
		return nil, err
	}

	return &dto.DiagnoseResponse{
		Diagnosis:  record.Label,
		Confidence: record.Confidence,
		Reasoning:  record.Rationale,
		Matches:    fragmentsToDTO(matches),
	}, nil
}

func (s *caseService) Submit(ctx context.Context, req *dto.SubmitCaseRequest) (*dto.CaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	patient := &entity.Patient{
		FullName: req.Patient.FullName,
		Age:      req.Patient.Age,
		Gender:   req.Patient.Gender,
		Phone:    req.Patient.Phone,
		Email:    req.Patient.Email,
	}
	if err := uow.PatientRepository().Create(ctx, patient); err != nil {
		return nil, err
	}

	c := &entity.Case{
		Id:        newCaseId(),
		PatientId: patient.Id,
		Complaint: req.Complaint,
		Symptoms:  req.Symptoms,
		History:   req.History,
		Status:    constant.CaseStatusPending,
	}
	if err := uow.CaseRepository().Create(ctx, c); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.NewCaseSubmitted(c.Id, c.Complaint))

	record, _, err := s.runDiagnosis(ctx, caseQuery(c), constant.DefaultRetrievalK)
	if err != nil {
		// The case stays pending so regenerate can retry later, but the
		// failure still propagates to the caller.
		s.logger.Warn("case", "diagnosis failed on submit, case left pending", map[string]interface{}{
			"case_id": c.Id,
			"error":   err.Error(),
		})
		return nil, err
	}

	if err := uow.CaseRepository().UpdateDiagnosis(ctx, c.Id, record); err != nil {
		return nil, err
	}
	applyRecord(c, record)

	s.notifyDiagnosed(ctx, c, patient, false)

	return s.caseToDTO(c, patient), nil
}

func (s *caseService) Regenerate(ctx context.Context, caseId string) (*dto.CaseResponse, error) {
	// Concurrent regenerations of the same case are serialized so the stored
	// record is always one complete pass, never a mix of two.
	s.caseLocks.Lock(caseId)
	defer s.caseLocks.Unlock(caseId)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	c, err := uow.CaseRepository().FindOne(ctx, specification.ByID{ID: caseId})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCaseNotFound
	}

	record, _, err := s.runDiagnosis(ctx, caseQuery(c), constant.DefaultRetrievalK)
	if err != nil {
		// Prior diagnosis stays untouched.
		return nil, err
	}

	if err := uow.CaseRepository().UpdateDiagnosis(ctx, caseId, record); err != nil {
		return nil, err
	}
	applyRecord(c, record)

	patient, err := uow.PatientRepository().FindOne(ctx, specification.ByIntID{ID: c.PatientId})
	if err != nil {
		return nil, err
	}
	s.notifyDiagnosed(ctx, c, patient, true)

	return s.caseToDTO(c, patient), nil
}

func (s *caseService) Get(ctx context.Context, caseId string) (*dto.CaseResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cwp, err := uow.CaseRepository().FindWithPatient(ctx, caseId)
	if err != nil {
		return nil, err
	}
	if cwp == nil {
		return nil, ErrCaseNotFound
	}
	return s.caseToDTO(&cwp.Case, &cwp.Patient), nil
}

func (s *caseService) List(ctx context.Context, req *dto.ListCasesRequest) (*dto.ListCasesResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	countSpecs := []specification.Specification{}
	if req.Status != "" {
		countSpecs = append(countSpecs, specification.ByStatus{Status: req.Status})
	}

	total, err := uow.CaseRepository().Count(ctx, countSpecs...)
	if err != nil {
		return nil, err
	}

	listSpecs := append([]specification.Specification{}, countSpecs...)
	listSpecs = append(listSpecs,
		specification.OrderBy{Field: "cases.created_at", Desc: true},
		specification.Paginate{Limit: limit, Offset: (page - 1) * limit},
	)

	rows, err := uow.CaseRepository().ListWithPatients(ctx, listSpecs...)
	if err != nil {
		return nil, err
	}

	cases := make([]*dto.CaseResponse, len(rows))
	for i, row := range rows {
		cases[i] = s.caseToDTO(&row.Case, &row.Patient)
	}

	return &dto.ListCasesResponse{
		Cases: cases,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *caseService) Export(ctx context.Context, caseId string) ([]byte, string, error) {
	detail, err := s.Get(ctx, caseId)
	if err != nil {
		return nil, "", err
	}

	payload, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return payload, fmt.Sprintf("%s.json", caseId), nil
}

func (s *caseService) Stats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.CaseRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := uow.CaseRepository().Count(ctx, specification.ByStatus{Status: constant.CaseStatusPending})
	if err != nil {
		return nil, err
	}
	diagnosed, err := uow.CaseRepository().Count(ctx, specification.ByStatus{Status: constant.CaseStatusDiagnosed})
	if err != nil {
		return nil, err
	}
	patients, err := uow.PatientRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	corpus, err := uow.FragmentRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStatsResponse{
		TotalCases:     total,
		PendingCases:   pending,
		DiagnosedCases: diagnosed,
		TotalPatients:  patients,
		CorpusSize:     corpus,
	}, nil
}

// Notify re-queues the diagnosis notice for a case on demand. Unlike the
// automatic fan-out after a diagnosis, queueing failures surface here so the
// caller knows the resend did not happen.
func (s *caseService) Notify(ctx context.Context, caseId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cwp, err := uow.CaseRepository().FindWithPatient(ctx, caseId)
	if err != nil {
		return err
	}
	if cwp == nil {
		return ErrCaseNotFound
	}
	if cwp.Case.Status != constant.CaseStatusDiagnosed {
		return ErrCaseNotDiagnosed
	}
	if cwp.Patient.Email == nil || *cwp.Patient.Email == "" {
		return ErrNoPatientEmail
	}

	return s.queueNotice(ctx, &cwp.Case, *cwp.Patient.Email)
}

// notifyDiagnosed fans out the after-diagnosis side effects. All of them are
// best effort and only logged on failure.
func (s *caseService) notifyDiagnosed(ctx context.Context, c *entity.Case, patient *entity.Patient, regenerated bool) {
	if patient != nil && patient.Email != nil && *patient.Email != "" {
		if err := s.queueNotice(ctx, c, *patient.Email); err != nil {
			s.logger.Warn("case", "failed to queue diagnosis notice", map[string]interface{}{
				"case_id": c.Id,
				"error":   err.Error(),
			})
		}
	}

	s.publishEvent(ctx, events.NewCaseDiagnosed(c.Id, c.Diagnosis, regenerated))
}

func (s *caseService) queueNotice(ctx context.Context, c *entity.Case, email string) error {
	payload, err := json.Marshal(dto.DiagnosisNoticeMessage{
		CaseId:    c.Id,
		Email:     email,
		Diagnosis: c.Diagnosis,
	})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}

// publishEvent mirrors a domain event onto NATS when it is configured.
// Event delivery never fails the originating operation.
func (s *caseService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("case", "failed to publish case event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

// caseQuery flattens a case into the retrieval/prompt query text.
func caseQuery(c *entity.Case) string {
	var b strings.Builder
	b.WriteString(c.Complaint)
	if len(c.Symptoms) > 0 {
		b.WriteString(". Symptoms: ")
		b.WriteString(strings.Join(c.Symptoms, ", "))
	}
	if c.History != nil && *c.History != "" {
		b.WriteString(". History: ")
		b.WriteString(*c.History)
	}
	return b.String()
}

func applyRecord(c *entity.Case, record *entity.DiagnosisRecord) {
	c.Diagnosis = record.Label
	c.Reasoning = record.Rationale
	c.Confidence = record.Confidence
	c.Matches = record.Matches
	c.Status = constant.CaseStatusDiagnosed
}

func (s *caseService) caseToDTO(c *entity.Case, patient *entity.Patient) *dto.CaseResponse {
	resp := &dto.CaseResponse{
		Id:         c.Id,
		Complaint:  c.Complaint,
		Symptoms:   c.Symptoms,
		History:    c.History,
		Diagnosis:  c.Diagnosis,
		Confidence: c.Confidence,
		Status:     c.Status,
		Reasoning:  c.Reasoning,
		Matches:    c.Matches,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if patient != nil {
		resp.Patient = &dto.PatientResponse{
			Id:       patient.Id,
			FullName: patient.FullName,
			Age:      patient.Age,
			Gender:   patient.Gender,
			Phone:    patient.Phone,
			Email:    patient.Email,
		}
	}
	return resp
}

func fragmentsToDTO(fragments []store.Fragment) []dto.FragmentDTO {
	out := make([]dto.FragmentDTO, len(fragments))
	for i, f := range fragments {
		out[i] = dto.FragmentDTO{
			Index: f.Index,
			Text:  f.Text,
			Score: f.Score,
		}
	}
	return out
}
