package analysis

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/guardtree/guardtree-api/internal/application"
	"github.com/guardtree/guardtree-api/internal/domain/ai"
	domain "github.com/guardtree/guardtree-api/internal/domain/analysis"
	"github.com/guardtree/guardtree-api/internal/domain/forms"
)

// Service implements use-cases untuk model analysis.
// Safe for concurrent use.
type Service struct {
	Forms    forms.Repository
	Analyses domain.Repository
	Model    ai.Generator
	Archive  domain.Archive // optional; nil disables raw-response archiving
	Prompt   func(*forms.FormContent) string
	Clock    application.Clock

	locks keyedMutex
}

// AnalyzeCase runs the full analyze pipeline for one (case_id, year,
// form_type) key: look up the filled form, return the cached analysis when
// one exists, otherwise build the prompt, invoke the model, parse its
// output and persist the result. Idempotent: repeated calls for the same
// key never invoke the model twice.
//
// A per-key lock is held across the whole lookup-generate-persist sequence
// so two concurrent calls for the same key cannot both miss the cache.
func (s *Service) AnalyzeCase(ctx context.Context, caseID int64, year int, formType forms.FormType) (*domain.Result, error) {
	key := lockKey(caseID, year, formType)
	unlock := s.locks.lock(key)
	defer unlock()

	form, err := s.Forms.FindContent(ctx, caseID, year, formType)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, domain.ErrFormNotFound
	}

	existing, err := s.Analyses.Find(ctx, form.ID, formType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	raw, err := s.Model.Generate(ctx, s.Prompt(form))
	if err != nil {
		// adapter failures propagate unmodified; nothing partial persisted
		return nil, err
	}

	result, err := domain.Parse(domain.StripFence(raw))
	if err != nil {
		return nil, err
	}

	result.ID = domain.AnalysisID(uuid.New().String())
	result.FilledFormID = form.ID
	result.FormType = formType
	result.CreatedAt = s.Clock.Now()
	result.RawURL = s.archiveRaw(ctx, form, raw)

	if err := s.Analyses.Save(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAnalysisResult returns the cached analysis for the key without ever
// triggering generation. ErrFormNotFound when the form is missing,
// ErrNotFound when the form exists but has no cached analysis.
func (s *Service) GetAnalysisResult(ctx context.Context, caseID int64, year int, formType forms.FormType) (*domain.Result, error) {
	formID, err := s.Forms.FindID(ctx, caseID, year, formType)
	if err != nil {
		return nil, err
	}
	if formID == 0 {
		return nil, domain.ErrFormNotFound
	}

	existing, err := s.Analyses.Find(ctx, formID, formType)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	return existing, nil
}

// archiveRaw stores the raw model response for auditing. Best effort: a
// failed archive downgrades to an empty URL, it never fails the analysis.
func (s *Service) archiveRaw(ctx context.Context, form *forms.FormContent, raw string) string {
	if s.Archive == nil {
		return ""
	}
	key := fmt.Sprintf("analyses/%s/%s.txt", form.Key(), uuid.New().String())
	url, err := s.Archive.Put(ctx, key, []byte(raw))
	if err != nil {
		log.Printf("archive raw response failed for form=%d: %v", form.ID, err)
		return ""
	}
	return url
}

func lockKey(caseID int64, year int, formType forms.FormType) string {
	return fmt.Sprintf("%d:%d:%s", caseID, year, formType)
}

// keyedMutex serializes work per string key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
