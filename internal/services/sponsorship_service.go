package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
	"github.com/aleynaerrsln/meeting-management-system/internal/storage"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const autoStatusNote = "File added, status updated automatically"

// SponsorshipDocuments are the optional files sent with a create or update.
type SponsorshipDocuments struct {
	PdfReport               *Upload
	SentEmailScreenshot     *Upload
	ResponseEmailScreenshot *Upload
}

// Document names accepted by SponsorshipService.Document.
const (
	DocPdfReport     = "pdf"
	DocSentEmail     = "sent-email"
	DocResponseEmail = "response-email"
)

type SponsorshipService struct {
	db       *gorm.DB
	validate *validation.Validator
	blobs    storage.BlobStore
	now      func() time.Time
}

func NewSponsorshipService(db *gorm.DB, v *validation.Validator, blobs storage.BlobStore) *SponsorshipService {
	return &SponsorshipService{db: db, validate: v, blobs: blobs, now: nowUTC}
}

func (s *SponsorshipService) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("CreatedBy", briefUser).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB { return db.Order("changed_at ASC") }).
		Preload("StatusHistory.ChangedBy", briefUser)
}

func sponsorshipResource(sp *models.Sponsorship) policy.Resource {
	return policy.Resource{Kind: policy.KindSponsorship, OwnerID: sp.CreatedByID}
}

func (s *SponsorshipService) List(ctx context.Context, actor policy.Subject) ([]models.Sponsorship, error) {
	if err := authorize(actor, policy.ActionList, policy.Resource{Kind: policy.KindSponsorship}); err != nil {
		return nil, err
	}
	var list []models.Sponsorship
	err := s.withRelations(ctx).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (s *SponsorshipService) find(ctx context.Context, id uuid.UUID) (*models.Sponsorship, error) {
	var sp models.Sponsorship
	err := s.withRelations(ctx).First(&sp, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSponsorshipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sp, nil
}

func (s *SponsorshipService) Get(ctx context.Context, actor policy.Subject, id uuid.UUID) (*models.Sponsorship, error) {
	sp, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionView, sponsorshipResource(sp)); err != nil {
		return nil, err
	}
	return sp, nil
}

// attach stores docs and swaps them into sp. It returns the replaced file
// metadata for cleanup after commit and the new metadata for rollback.
func (s *SponsorshipService) attach(ctx context.Context, sp *models.Sponsorship, docs SponsorshipDocuments) (replaced, added []models.FileMeta, err error) {
	slots := []struct {
		up   *Upload
		dest *models.FileMeta
	}{
		{docs.PdfReport, &sp.PdfReport},
		{docs.SentEmailScreenshot, &sp.SentEmailScreenshot},
		{docs.ResponseEmailScreenshot, &sp.ResponseEmailScreenshot},
	}
	for _, slot := range slots {
		if slot.up == nil {
			continue
		}
		meta, err := storeUpload(ctx, s.blobs, slot.up, s.now())
		if err != nil {
			for _, m := range added {
				discardBlob(ctx, s.blobs, m)
			}
			return nil, nil, err
		}
		replaced = append(replaced, *slot.dest)
		added = append(added, meta)
		*slot.dest = meta
	}
	return replaced, added, nil
}

func (s *SponsorshipService) Create(ctx context.Context, actor policy.Subject, req *dto.CreateSponsorshipRequest, docs SponsorshipDocuments) (*models.Sponsorship, error) {
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindSponsorship}); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	sp := models.Sponsorship{
		ID:                 uuid.New(),
		CompanyName:        strings.TrimSpace(req.CompanyName),
		CompanyEmail:       strings.TrimSpace(req.CompanyEmail),
		RequestDescription: req.RequestDescription,
		Notes:              req.Notes,
		CreatedByID:        actor.UserID,
	}
	_, added, err := s.attach(ctx, &sp, docs)
	if err != nil {
		return nil, err
	}
	sp.Status, _ = DerivedStatus(&sp)

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&sp).Error; err != nil {
		for _, m := range added {
			discardBlob(ctx, s.blobs, m)
		}
		return nil, fmt.Errorf("failed to create sponsorship: %w", err)
	}
	return s.find(ctx, sp.ID)
}

// rederive updates the derived status of sp and returns the history row to
// append, or nil when the status is unchanged or a decision is final.
func rederive(sp *models.Sponsorship, actorID uuid.UUID, now time.Time) *models.SponsorshipStatusChange {
	next, changed := DerivedStatus(sp)
	if !changed {
		return nil
	}
	sp.Status = next
	return &models.SponsorshipStatusChange{
		ID:            uuid.New(),
		SponsorshipID: sp.ID,
		Status:        next,
		ChangedByID:   actorID,
		ChangedAt:     now,
		Note:          autoStatusNote,
	}
}

func (s *SponsorshipService) Update(ctx context.Context, actor policy.Subject, id uuid.UUID, req *dto.UpdateSponsorshipRequest, docs SponsorshipDocuments) (*models.Sponsorship, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	sp, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionUpdate, sponsorshipResource(sp)); err != nil {
		return nil, err
	}

	if req.CompanyName != nil {
		sp.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.CompanyEmail != nil {
		sp.CompanyEmail = strings.TrimSpace(*req.CompanyEmail)
	}
	if req.RequestDescription != nil {
		sp.RequestDescription = *req.RequestDescription
	}
	if req.Notes != nil {
		sp.Notes = *req.Notes
	}
	replaced, added, err := s.attach(ctx, sp, docs)
	if err != nil {
		return nil, err
	}
	change := rederive(sp, actor.UserID, s.now())

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(sp).Error; err != nil {
			return err
		}
		if change != nil {
			return tx.Create(change).Error
		}
		return nil
	})
	if err != nil {
		for _, m := range added {
			discardBlob(ctx, s.blobs, m)
		}
		return nil, fmt.Errorf("failed to update sponsorship: %w", err)
	}
	for _, m := range replaced {
		discardBlob(ctx, s.blobs, m)
	}
	return s.find(ctx, sp.ID)
}

// Decide records a final decision. Later document uploads no longer move
// the status.
func (s *SponsorshipService) Decide(ctx context.Context, actor policy.Subject, id uuid.UUID, req *dto.SponsorshipDecisionRequest) (*models.Sponsorship, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	sp, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionDecide, sponsorshipResource(sp)); err != nil {
		return nil, err
	}

	note := req.Note
	if note == "" {
		note = "Sponsorship " + req.Decision
	}
	decision := req.Decision
	sp.FinalDecision = &decision
	sp.Status = decision
	change := models.SponsorshipStatusChange{
		ID:            uuid.New(),
		SponsorshipID: sp.ID,
		Status:        decision,
		ChangedByID:   actor.UserID,
		ChangedAt:     s.now(),
		Note:          note,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Sponsorship{}).Where("id = ?", sp.ID).
			Updates(map[string]interface{}{"final_decision": decision, "status": decision}).Error; err != nil {
			return err
		}
		return tx.Create(&change).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record decision: %w", err)
	}
	return s.find(ctx, sp.ID)
}

func (s *SponsorshipService) Delete(ctx context.Context, actor policy.Subject, id uuid.UUID) error {
	sp, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, policy.ActionDelete, sponsorshipResource(sp)); err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sponsorship_id = ?", sp.ID).Delete(&models.SponsorshipStatusChange{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Sponsorship{}, "id = ?", sp.ID).Error
	})
	if err != nil {
		return err
	}
	for _, m := range []models.FileMeta{sp.PdfReport, sp.SentEmailScreenshot, sp.ResponseEmailScreenshot} {
		discardBlob(ctx, s.blobs, m)
	}
	return nil
}

// Document streams one of the stored files by name.
func (s *SponsorshipService) Document(ctx context.Context, actor policy.Subject, id uuid.UUID, name string) (*File, error) {
	sp, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	switch name {
	case DocPdfReport:
		return loadFile(ctx, s.blobs, sp.PdfReport)
	case DocSentEmail:
		return loadFile(ctx, s.blobs, sp.SentEmailScreenshot)
	case DocResponseEmail:
		return loadFile(ctx, s.blobs, sp.ResponseEmailScreenshot)
	default:
		return nil, ErrFileNotFound
	}
}
