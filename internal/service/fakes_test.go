package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"medrag-be/internal/entity"
	"medrag-be/internal/repository/contract"
	"medrag-be/internal/repository/specification"
	"medrag-be/internal/repository/unitofwork"
	"medrag-be/pkg/embedding"
	"medrag-be/pkg/llm"
	"medrag-be/pkg/store"
)

// In-memory doubles for the persistence and AI boundaries. The
// specification-based repository contracts are satisfied by type-switching
// on the handful of specifications the services actually use.

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

type fakeIndex struct {
	hits []store.Fragment
	err  error
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, k int) ([]store.Fragment, error) {
	if f.err != nil {
		return nil, f.err
	}
	if k > len(f.hits) {
		k = len(f.hits)
	}
	return f.hits[:k], nil
}

func rankedHits(n int) []store.Fragment {
	out := make([]store.Fragment, n)
	for i := range out {
		out[i] = store.Fragment{
			Index: i,
			Text:  fmt.Sprintf("corpus fragment %d", i),
			Score: 1.0 - float64(i)*0.05,
		}
	}
	return out
}

type fakeLLM struct {
	output  string
	err     error
	calls   int
	prompts []string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.Generate(ctx, "", options...)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

type fakePublisher struct {
	payloads [][]byte
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

// fakeStore is shared by every repository so a single unit of work sees one
// consistent dataset, like the real gorm-backed factory does.
type fakeStore struct {
	patients   map[int]*entity.Patient
	nextPat    int
	cases      map[string]*entity.Case
	sessions   map[string]*entity.ChatSession
	turns      []*entity.ChatTurn
	feedback   map[string]*entity.Feedback
	corpusSize int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		patients: make(map[int]*entity.Patient),
		nextPat:  1,
		cases:    make(map[string]*entity.Case),
		sessions: make(map[string]*entity.ChatSession),
		feedback: make(map[string]*entity.Feedback),
	}
}

type fakeFactory struct {
	store *fakeStore
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{store: newFakeStore()}
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct {
	store *fakeStore
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) PatientRepository() contract.PatientRepository {
	return &fakePatientRepo{store: u.store}
}
func (u *fakeUow) CaseRepository() contract.CaseRepository {
	return &fakeCaseRepo{store: u.store}
}
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{store: u.store}
}
func (u *fakeUow) ChatTurnRepository() contract.ChatTurnRepository {
	return &fakeTurnRepo{store: u.store}
}
func (u *fakeUow) FragmentRepository() contract.FragmentRepository {
	return &fakeFragmentRepo{store: u.store}
}
func (u *fakeUow) FeedbackRepository() contract.FeedbackRepository {
	return &fakeFeedbackRepo{store: u.store}
}

type fakePatientRepo struct{ store *fakeStore }

func (r *fakePatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	p.Id = r.store.nextPat
	r.store.nextPat++
	p.CreatedAt = time.Now()
	cp := *p
	r.store.patients[p.Id] = &cp
	return nil
}

func (r *fakePatientRepo) Update(ctx context.Context, p *entity.Patient) error {
	cp := *p
	r.store.patients[p.Id] = &cp
	return nil
}

func (r *fakePatientRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Patient, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByIntID); ok {
			if p, found := r.store.patients[s.ID]; found {
				cp := *p
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Patient, error) {
	out := make([]*entity.Patient, 0, len(r.store.patients))
	for _, p := range r.store.patients {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakePatientRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.patients)), nil
}

type fakeCaseRepo struct{ store *fakeStore }

func (r *fakeCaseRepo) Create(ctx context.Context, c *entity.Case) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.store.cases[c.Id] = &cp
	return nil
}

func (r *fakeCaseRepo) Update(ctx context.Context, c *entity.Case) error {
	cp := *c
	r.store.cases[c.Id] = &cp
	return nil
}

func (r *fakeCaseRepo) UpdateDiagnosis(ctx context.Context, caseId string, record *entity.DiagnosisRecord) error {
	c, found := r.store.cases[caseId]
	if !found {
		return fmt.Errorf("case %s not in store", caseId)
	}
	applyRecord(c, record)
	c.UpdatedAt = time.Now()
	return nil
}

func (r *fakeCaseRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Case, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			if c, found := r.store.cases[s.ID]; found {
				cp := *c
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeCaseRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Case, error) {
	out := make([]*entity.Case, 0, len(r.store.cases))
	for _, c := range r.store.cases {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCaseRepo) FindWithPatient(ctx context.Context, caseId string) (*entity.CaseWithPatient, error) {
	c, found := r.store.cases[caseId]
	if !found {
		return nil, nil
	}
	p, found := r.store.patients[c.PatientId]
	if !found {
		return nil, nil
	}
	return &entity.CaseWithPatient{Case: *c, Patient: *p}, nil
}

func (r *fakeCaseRepo) ListWithPatients(ctx context.Context, specs ...specification.Specification) ([]*entity.CaseWithPatient, error) {
	status := ""
	for _, spec := range specs {
		if s, ok := spec.(specification.ByStatus); ok {
			status = s.Status
		}
	}

	out := []*entity.CaseWithPatient{}
	for _, c := range r.store.cases {
		if status != "" && c.Status != status {
			continue
		}
		p := r.store.patients[c.PatientId]
		if p == nil {
			continue
		}
		out = append(out, &entity.CaseWithPatient{Case: *c, Patient: *p})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Case.CreatedAt.After(out[j].Case.CreatedAt)
	})
	return out, nil
}

func (r *fakeCaseRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	status := ""
	for _, spec := range specs {
		if s, ok := spec.(specification.ByStatus); ok {
			status = s.Status
		}
	}
	var n int64
	for _, c := range r.store.cases {
		if status == "" || c.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, s *entity.ChatSession) error {
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	cp := *s
	r.store.sessions[s.Id] = &cp
	return nil
}

func (r *fakeSessionRepo) Touch(ctx context.Context, sessionId string) error {
	if s, found := r.store.sessions[sessionId]; found {
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			if sess, found := r.store.sessions[s.ID]; found {
				cp := *sess
				return &cp, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.sessions)), nil
}

type fakeTurnRepo struct{ store *fakeStore }

func (r *fakeTurnRepo) Create(ctx context.Context, t *entity.ChatTurn) error {
	t.CreatedAt = time.Now()
	cp := *t
	r.store.turns = append(r.store.turns, &cp)
	return nil
}

func (r *fakeTurnRepo) FindRecent(ctx context.Context, sessionId string, n int) ([]*entity.ChatTurn, error) {
	var all []*entity.ChatTurn
	for _, t := range r.store.turns {
		if t.ChatSessionId == sessionId {
			cp := *t
			all = append(all, &cp)
		}
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

func (r *fakeTurnRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error) {
	sessionId := ""
	for _, spec := range specs {
		if s, ok := spec.(specification.ByChatSessionID); ok {
			sessionId = s.ChatSessionID
		}
	}
	var out []*entity.ChatTurn
	for _, t := range r.store.turns {
		if sessionId == "" || t.ChatSessionId == sessionId {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTurnRepo) DeleteBySessionId(ctx context.Context, sessionId string) error {
	kept := r.store.turns[:0]
	for _, t := range r.store.turns {
		if t.ChatSessionId != sessionId {
			kept = append(kept, t)
		}
	}
	r.store.turns = kept
	return nil
}

func (r *fakeTurnRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	turns, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(turns)), nil
}

type fakeFragmentRepo struct{ store *fakeStore }

func (r *fakeFragmentRepo) CreateBulk(ctx context.Context, fragments []*entity.FragmentEmbedding) error {
	r.store.corpusSize += int64(len(fragments))
	return nil
}

func (r *fakeFragmentRepo) SearchSimilar(ctx context.Context, vector []float32, k int) ([]*entity.ScoredFragment, error) {
	return nil, nil
}

func (r *fakeFragmentRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return r.store.corpusSize, nil
}

type fakeFeedbackRepo struct{ store *fakeStore }

func (r *fakeFeedbackRepo) Create(ctx context.Context, f *entity.Feedback) error {
	f.CreatedAt = time.Now()
	cp := *f
	r.store.feedback[f.Id] = &cp
	return nil
}

func (r *fakeFeedbackRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Feedback, error) {
	out := make([]*entity.Feedback, 0, len(r.store.feedback))
	for _, f := range r.store.feedback {
		cp := *f
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeFeedbackRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.feedback)), nil
}

// diagnosticOutput renders a model response the extractor can parse.
func diagnosticOutput(label string) string {
	var b strings.Builder
	b.WriteString("### Diagnoses\n")
	b.WriteString(label)
	b.WriteString("\n### Follow-up Questions\nHow long have symptoms lasted?\n")
	return b.String()
}
