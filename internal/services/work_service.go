// internal/services/work_service.go
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/isows-india/worklicense-backend/internal/config"
	"github.com/isows-india/worklicense-backend/internal/database"
	"github.com/isows-india/worklicense-backend/internal/events"
	"github.com/isows-india/worklicense-backend/internal/models"
	"github.com/isows-india/worklicense-backend/internal/originality"
)

const maxTitleLength = 255

type WorkService struct {
	works     *database.Collection[models.Work]
	revisions *database.Collection[models.WorkRevision]
	engine    *originality.Engine
	publisher events.Publisher
	config    *config.Config
	logger    *logrus.Entry

	// serializes the work update and its revision append
	updateMu sync.Mutex
}

type SubmitWorkRequest struct {
	Title   string `json:"title" validate:"required,notblank,max=255"`
	Content string `json:"content" validate:"required,notblank"`
}

type EditWorkRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,notblank,max=255"`
	Content *string `json:"content,omitempty" validate:"omitempty,notblank"`
}

type SubmitWorkResult struct {
	Work             *models.Work        `json:"work"`
	PlagiarismResult *originality.Result `json:"plagiarism_result"`
}

// NewOriginalityEngine builds the scoring engine from the plagiarism settings.
func NewOriginalityEngine(cfg *config.Config) *originality.Engine {
	return originality.NewEngine(originality.Config{
		ShingleSize:         cfg.Plagiarism.ShingleSize,
		MatchThreshold:      cfg.Plagiarism.MatchThreshold,
		PlagiarismThreshold: cfg.Plagiarism.PlagiarismThreshold,
		MaxExamplePhrases:   cfg.Plagiarism.MaxExamplePhrases,
		Workers:             cfg.Plagiarism.Workers,
		CacheTTL:            time.Duration(cfg.Plagiarism.CacheTTL) * time.Minute,
	})
}

func NewWorkService(repos *database.Repositories, engine *originality.Engine, publisher events.Publisher, cfg *config.Config) *WorkService {
	return &WorkService{
		works:     repos.Works,
		revisions: repos.Revisions,
		engine:    engine,
		publisher: publisher,
		config:    cfg,
		logger:    logrus.WithField("service", "works"),
	}
}

// SubmitWork scores content against every other author's works and stores
// it only when it is not classified as plagiarised.
func (s *WorkService) SubmitWork(ctx context.Context, ownerID, title, content string) (*SubmitWorkResult, error) {
	title = strings.TrimSpace(title)
	if err := s.validateSubmission(title, content); err != nil {
		return nil, err
	}

	result, err := s.Score(ctx, ownerID, content)
	if err != nil {
		return nil, err
	}

	if result.IsPlagiarized {
		s.logger.WithFields(logrus.Fields{
			"owner_id": ownerID,
			"score":    result.Score,
			"matches":  len(result.Matches),
		}).Info("Submission rejected as plagiarised")
		return nil, &PlagiarismRejectedError{Result: result}
	}

	work, err := s.CreateWork(ownerID, title, content, result.Score)
	if err != nil {
		return nil, err
	}

	return &SubmitWorkResult{Work: work, PlagiarismResult: result}, nil
}

// Score checks content against every live work not owned by ownerID without
// storing anything.
func (s *WorkService) Score(ctx context.Context, ownerID, content string) (*originality.Result, error) {
	result, err := s.engine.Score(ctx, content, ownerID, s.corpus())
	if err != nil {
		return nil, fmt.Errorf("failed to score submission: %w", err)
	}
	return result, nil
}

func (s *WorkService) validateSubmission(title, content string) error {
	if title == "" {
		return newValidationError("title", "title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return newValidationError("title", "title must be at most %d characters", maxTitleLength)
	}
	if strings.TrimSpace(content) == "" {
		return newValidationError("content", "content is required")
	}
	if minLen := s.config.Works.MinContentLength; utf8.RuneCountInString(content) < minLen {
		return newValidationError("content", "content must be at least %d characters long", minLen)
	}
	return nil
}

func (s *WorkService) CreateWork(ownerID, title, content string, plagiarismScore int) (*models.Work, error) {
	if ownerID == "" {
		return nil, newValidationError("owner_id", "owner is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, newValidationError("title", "title is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, newValidationError("content", "content is required")
	}
	if plagiarismScore < 0 || plagiarismScore > 100 {
		return nil, newValidationError("plagiarism_score", "score must be within [0,100]")
	}

	now := models.Now()
	work := models.Work{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Title:           title,
		Content:         content,
		SubmittedAt:     now,
		UpdatedAt:       now,
		PlagiarismScore: plagiarismScore,
	}

	err := s.works.Mutate(func(records []models.Work) ([]models.Work, error) {
		return append(records, work), nil
	})
	if err != nil {
		return &work, fmt.Errorf("failed to create work: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"work_id":  work.ID,
		"owner_id": ownerID,
		"score":    plagiarismScore,
	}).Info("Work created")

	return &work, nil
}

func (s *WorkService) GetWork(id uuid.UUID, requestingOwnerID string) (*models.Work, error) {
	work, ok := s.works.Find(func(w models.Work) bool {
		return w.ID == id && !w.IsDeleted()
	})
	if !ok || work.OwnerID != requestingOwnerID {
		return nil, ErrNotFound
	}
	return &work, nil
}

// ListWorks returns the owner's works, newest first.
func (s *WorkService) ListWorks(ownerID string) ([]models.Work, error) {
	works := s.works.Filter(func(w models.Work) bool {
		return w.OwnerID == ownerID && !w.IsDeleted()
	})
	sort.SliceStable(works, func(i, j int) bool {
		return works[i].SubmittedAt.After(works[j].SubmittedAt)
	})
	return works, nil
}

// ListAllWorks is the corpus snapshot used for originality checks. It must
// not be exposed to callers directly.
func (s *WorkService) ListAllWorks() []models.Work {
	return s.works.Filter(func(w models.Work) bool {
		return !w.IsDeleted()
	})
}

func (s *WorkService) corpus() []originality.Document {
	works := s.ListAllWorks()
	docs := make([]originality.Document, len(works))
	for i, w := range works {
		docs[i] = originality.Document{
			ID:      w.ID.String(),
			OwnerID: w.OwnerID,
			Title:   w.Title,
			Content: w.Content,
		}
	}
	return docs
}

// EditWork applies a title and/or content change on behalf of the owner.
func (s *WorkService) EditWork(id uuid.UUID, ownerID string, req *EditWorkRequest) (*models.Work, error) {
	if _, err := s.GetWork(id, ownerID); err != nil {
		return nil, err
	}

	patch := models.WorkPatch{Content: req.Content}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		patch.Title = &title
	}
	return s.UpdateWork(id, patch)
}

// UpdateWork merges the supplied fields into the work and records exactly one
// revision of the result.
func (s *WorkService) UpdateWork(id uuid.UUID, patch models.WorkPatch) (*models.Work, error) {
	if err := s.validatePatch(patch); err != nil {
		return nil, err
	}

	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	var updated models.Work
	err := s.works.Mutate(func(records []models.Work) ([]models.Work, error) {
		for i := range records {
			if records[i].ID != id || records[i].IsDeleted() {
				continue
			}
			if err := applyPatch(&records[i], patch); err != nil {
				return nil, err
			}
			records[i].UpdatedAt = models.Now()
			updated = records[i]
			return records, nil
		}
		return nil, ErrNotFound
	})
	if err != nil && !IsPersistenceError(err) {
		return nil, err
	}
	workErr := err

	revision := models.WorkRevision{
		ID:        uuid.New(),
		WorkID:    updated.ID,
		OwnerID:   updated.OwnerID,
		Title:     updated.Title,
		Content:   updated.Content,
		UpdatedAt: updated.UpdatedAt,
	}
	revErr := s.revisions.Mutate(func(records []models.WorkRevision) ([]models.WorkRevision, error) {
		return append(records, revision), nil
	})

	if patch.Content != nil {
		s.engine.Forget(id.String())
	}

	if workErr != nil {
		return &updated, fmt.Errorf("failed to update work: %w", workErr)
	}
	if revErr != nil {
		return &updated, fmt.Errorf("failed to record revision: %w", revErr)
	}

	s.logger.WithFields(logrus.Fields{
		"work_id":     id,
		"revision_id": revision.ID,
	}).Debug("Work updated")

	return &updated, nil
}

func (s *WorkService) validatePatch(patch models.WorkPatch) error {
	if patch.IsEmpty() {
		return newValidationError("patch", "nothing to update")
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return newValidationError("title", "title is required")
		}
		if utf8.RuneCountInString(*patch.Title) > maxTitleLength {
			return newValidationError("title", "title must be at most %d characters", maxTitleLength)
		}
	}
	if patch.Content != nil {
		if strings.TrimSpace(*patch.Content) == "" {
			return newValidationError("content", "content is required")
		}
		if minLen := s.config.Works.MinContentLength; utf8.RuneCountInString(*patch.Content) < minLen {
			return newValidationError("content", "content must be at least %d characters long", minLen)
		}
	}
	if patch.IsLicensed != nil && !*patch.IsLicensed {
		return newValidationError("is_licensed", "a licensed work cannot return to submitted")
	}
	if patch.LicenseID != nil && *patch.LicenseID == uuid.Nil {
		return newValidationError("license_id", "license id is invalid")
	}
	return nil
}

// applyPatch keeps is_licensed and license_id in step: setting either one
// requires the other to end up set.
func applyPatch(work *models.Work, patch models.WorkPatch) error {
	if patch.LicenseID != nil {
		if work.LicenseID != nil && *work.LicenseID != *patch.LicenseID {
			return newValidationError("license_id", "work already has a license")
		}
		id := *patch.LicenseID
		work.LicenseID = &id
		work.IsLicensed = true
	}
	if patch.IsLicensed != nil && *patch.IsLicensed && work.LicenseID == nil {
		return newValidationError("license_id", "license id is required to mark a work licensed")
	}
	if patch.Title != nil {
		work.Title = *patch.Title
	}
	if patch.Content != nil {
		work.Content = *patch.Content
	}
	return nil
}

// GetRevisions returns the edit history of a work, oldest first.
func (s *WorkService) GetRevisions(workID uuid.UUID, requestingOwnerID string) ([]models.WorkRevision, error) {
	revisions := s.revisions.Filter(func(r models.WorkRevision) bool {
		return r.WorkID == workID && r.OwnerID == requestingOwnerID
	})
	sort.SliceStable(revisions, func(i, j int) bool {
		return revisions[i].UpdatedAt.Before(revisions[j].UpdatedAt)
	})
	return revisions, nil
}

// DeleteWork hides a work from its owner and from future originality checks.
// Licensed works are kept.
func (s *WorkService) DeleteWork(id uuid.UUID, ownerID string) error {
	err := s.works.Mutate(func(records []models.Work) ([]models.Work, error) {
		for i := range records {
			if records[i].ID != id || records[i].IsDeleted() || records[i].OwnerID != ownerID {
				continue
			}
			if records[i].IsLicensed {
				return nil, ErrWorkLicensed
			}
			now := models.Now()
			records[i].DeletedAt = &now
			records[i].UpdatedAt = now
			return records, nil
		}
		return nil, ErrNotFound
	})
	if err != nil {
		if IsPersistenceError(err) {
			s.engine.Forget(id.String())
			return fmt.Errorf("failed to delete work: %w", err)
		}
		return err
	}

	s.engine.Forget(id.String())
	s.logger.WithField("work_id", id).Info("Work deleted")
	return nil
}

// CheckWork scores an existing work against other authors' works and
// publishes WorkFlagged when it crosses the threshold.
func (s *WorkService) CheckWork(ctx context.Context, id uuid.UUID, identity *models.Identity) (*originality.Result, error) {
	work, err := s.GetWork(id, identity.ID)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Score(ctx, work.Content, work.OwnerID, s.corpus())
	if err != nil {
		return nil, fmt.Errorf("failed to score work: %w", err)
	}

	if result.IsPlagiarized && len(result.Matches) > 0 {
		s.publish(events.WorkFlagged{
			Email:        identity.Email,
			WorkTitle:    work.Title,
			WorkID:       work.ID.String(),
			Result:       *result,
			MatchedWorks: s.matchedWorks(result.Matches),
		})
	}

	return result, nil
}

func (s *WorkService) matchedWorks(matches []originality.Match) []models.Work {
	ids := make(map[string]bool, len(matches))
	for _, m := range matches {
		ids[m.WorkID] = true
	}
	return s.works.Filter(func(w models.Work) bool {
		return ids[w.ID.String()]
	})
}

func (s *WorkService) publish(event events.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(event)
}
