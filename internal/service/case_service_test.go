package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"medrag-be/internal/constant"
	"medrag-be/internal/dto"
	"medrag-be/internal/entity"
	ragcontext "medrag-be/pkg/rag/context"
	"medrag-be/pkg/rag/evidence"
	"medrag-be/pkg/rag/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var caseIdPattern = regexp.MustCompile(`^CASE-[0-9A-F]{8}$`)

func newCaseServiceForTest(llmOut string, llmErr error) (ICaseService, *fakeFactory, *fakePublisher, *fakeLLM) {
	factory := newFakeFactory()
	publisher := &fakePublisher{}
	model := &fakeLLM{output: llmOut, err: llmErr}

	retriever := retrieval.NewClient(&fakeEmbedder{}, &fakeIndex{hits: rankedHits(5)})
	assembler := ragcontext.NewAssembler(evidence.NewDecoder(evidence.DefaultTable()))

	svc := NewCaseService(factory, retriever, assembler, model, publisher, nil, nopLogger{})
	return svc, factory, publisher, model
}

func submitRequest() *dto.SubmitCaseRequest {
	email := "jane.doe@example.com"
	return &dto.SubmitCaseRequest{
		Patient: dto.PatientInput{
			FullName: "Jane Doe",
			Age:      34,
			Gender:   "female",
			Email:    &email,
		},
		Complaint: "persistent cough with fever",
		Symptoms:  []string{"cough", "fever", "fatigue"},
	}
}

// onlyCase returns the single case in the store, for flows where Submit
// errors before handing back an id.
func onlyCase(store *fakeStore) *entity.Case {
	for _, c := range store.cases {
		return c
	}
	return nil
}

func TestDiagnose(t *testing.T) {
	svc, _, _, _ := newCaseServiceForTest(diagnosticOutput("pneumonia"), nil)

	res, err := svc.Diagnose(context.Background(), &dto.DiagnoseRequest{Query: "cough and fever"})
	require.NoError(t, err)

	assert.Equal(t, "pneumonia", res.Diagnosis)
	assert.Equal(t, constant.FixedConfidence, res.Confidence)
	assert.NotEmpty(t, res.Reasoning)
	assert.LessOrEqual(t, len(res.Matches), constant.ContextFragmentLimit)
}

func TestSubmitCreatesDiagnosedCase(t *testing.T) {
	svc, factory, publisher, _ := newCaseServiceForTest(diagnosticOutput("pneumonia"), nil)

	res, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	assert.Regexp(t, caseIdPattern, res.Id)
	assert.Equal(t, constant.CaseStatusDiagnosed, res.Status)
	assert.Equal(t, "pneumonia", res.Diagnosis)
	assert.Equal(t, constant.FixedConfidence, res.Confidence)
	assert.LessOrEqual(t, len(res.Matches), constant.ContextFragmentLimit)
	require.NotNil(t, res.Patient)
	assert.Equal(t, "Jane Doe", res.Patient.FullName)

	stored := factory.store.cases[res.Id]
	require.NotNil(t, stored)
	assert.Equal(t, constant.CaseStatusDiagnosed, stored.Status)

	// The patient has an email, so a notice was queued.
	assert.Len(t, publisher.payloads, 1)
}

func TestSubmitSurfacesGenerationFailure(t *testing.T) {
	svc, factory, publisher, _ := newCaseServiceForTest("", errors.New("model down"))

	res, err := svc.Submit(context.Background(), submitRequest())
	assert.ErrorIs(t, err, ErrUpstreamGeneration)
	assert.Nil(t, res)

	// The case is still persisted as pending so regenerate can retry it.
	require.Len(t, factory.store.cases, 1)
	stored := onlyCase(factory.store)
	assert.Equal(t, constant.CaseStatusPending, stored.Status)
	assert.Empty(t, stored.Diagnosis)
	assert.Empty(t, publisher.payloads)
}

func TestNotifyRequeuesDiagnosisNotice(t *testing.T) {
	svc, _, publisher, _ := newCaseServiceForTest(diagnosticOutput("pneumonia"), nil)

	res, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	publisher.payloads = nil // drop the notice queued on submit

	require.NoError(t, svc.Notify(context.Background(), res.Id))
	require.Len(t, publisher.payloads, 1)
	assert.Contains(t, string(publisher.payloads[0]), "pneumonia")
	assert.Contains(t, string(publisher.payloads[0]), "jane.doe@example.com")
}

func TestNotifyUnknownCase(t *testing.T) {
	svc, _, _, _ := newCaseServiceForTest(diagnosticOutput("pneumonia"), nil)

	err := svc.Notify(context.Background(), "CASE-DEADBEEF")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestNotifyPendingCase(t *testing.T) {
	svc, factory, publisher, _ := newCaseServiceForTest("", errors.New("model down"))

	_, err := svc.Submit(context.Background(), submitRequest())
	require.ErrorIs(t, err, ErrUpstreamGeneration)

	err = svc.Notify(context.Background(), onlyCase(factory.store).Id)
	assert.ErrorIs(t, err, ErrCaseNotDiagnosed)
	assert.Empty(t, publisher.payloads)
}

func TestNotifyWithoutPatientEmail(t *testing.T) {
	svc, _, publisher, _ := newCaseServiceForTest(diagnosticOutput("pneumonia"), nil)

	req := submitRequest()
	req.Patient.Email = nil

	res, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, publisher.payloads)

	err = svc.Notify(context.Background(), res.Id)
	assert.ErrorIs(t, err, ErrNoPatientEmail)
}

func TestRegenerateUnknownCase(t *testing.T) {
	svc, _, _, _ := newCaseServiceForTest(diagnosticOutput("pneumonia"), nil)

	_, err := svc.Regenerate(context.Background(), "CASE-DEADBEEF")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestRegenerateReplacesRecordWholesale(t *testing.T) {
	svc, factory, _, model := newCaseServiceForTest(diagnosticOutput("pneumonia"), nil)

	res, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	model.output = diagnosticOutput("bronchitis")

	regen, err := svc.Regenerate(context.Background(), res.Id)
	require.NoError(t, err)

	assert.Equal(t, "bronchitis", regen.Diagnosis)
	assert.NotEqual(t, res.Reasoning, regen.Reasoning)

	stored := factory.store.cases[res.Id]
	assert.Equal(t, "bronchitis", stored.Diagnosis)
	assert.Equal(t, constant.CaseStatusDiagnosed, stored.Status)
}

func TestRegenerateFailurePreservesPriorDiagnosis(t *testing.T) {
	svc, factory, _, model := newCaseServiceForTest(diagnosticOutput("pneumonia"), nil)

	res, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	model.err = errors.New("model down")

	_, err = svc.Regenerate(context.Background(), res.Id)
	assert.ErrorIs(t, err, ErrUpstreamGeneration)

	stored := factory.store.cases[res.Id]
	assert.Equal(t, "pneumonia", stored.Diagnosis)
	assert.Equal(t, constant.CaseStatusDiagnosed, stored.Status)
}

func TestGetUnknownCase(t *testing.T) {
	svc, _, _, _ := newCaseServiceForTest(diagnosticOutput("pneumonia"), nil)

	_, err := svc.Get(context.Background(), "CASE-DEADBEEF")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestListAndStats(t *testing.T) {
	svc, _, _, _ := newCaseServiceForTest(diagnosticOutput("pneumonia"), nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(context.Background(), submitRequest())
		require.NoError(t, err)
	}

	list, err := svc.List(context.Background(), &dto.ListCasesRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), list.Total)
	assert.Len(t, list.Cases, 3)

	filtered, err := svc.List(context.Background(), &dto.ListCasesRequest{Status: constant.CaseStatusPending})
	require.NoError(t, err)
	assert.Equal(t, int64(0), filtered.Total)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalCases)
	assert.Equal(t, int64(3), stats.DiagnosedCases)
	assert.Equal(t, int64(0), stats.PendingCases)
	assert.Equal(t, int64(3), stats.TotalPatients)
}

func TestExport(t *testing.T) {
	svc, _, _, _ := newCaseServiceForTest(diagnosticOutput("pneumonia"), nil)

	res, err := svc.Submit(context.Background(), submitRequest())
	require.NoError(t, err)

	payload, filename, err := svc.Export(context.Background(), res.Id)
	require.NoError(t, err)
	assert.Equal(t, res.Id+".json", filename)
	assert.Contains(t, string(payload), "pneumonia")
}

func TestDiagnoseExtractionFallback(t *testing.T) {
	svc, _, _, _ := newCaseServiceForTest("free-form answer with no sections", nil)

	res, err := svc.Diagnose(context.Background(), &dto.DiagnoseRequest{Query: "q"})
	require.NoError(t, err)

	assert.Equal(t, constant.UnknownDiagnosis, res.Diagnosis)
	assert.Equal(t, "free-form answer with no sections", res.Reasoning)
}
