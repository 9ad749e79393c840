package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/mail"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MeetingService struct {
	db        *gorm.DB
	validate  *validation.Validator
	mailer    mail.Mailer
	templates mail.Templates
	now       func() time.Time
}

func NewMeetingService(db *gorm.DB, v *validation.Validator, mailer mail.Mailer, templates mail.Templates) *MeetingService {
	return &MeetingService{
		db:        db,
		validate:  v,
		mailer:    mailer,
		templates: templates,
		now:       nowUTC,
	}
}

func (s *MeetingService) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Participants", briefUser).
		Preload("CreatedBy", briefUser).
		Preload("Attendance.User", briefUser).
		Preload("Attendance.MarkedBy", briefUser).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Notes.Author", briefUser)
}

func meetingResource(m *models.Meeting) policy.Resource {
	return policy.Resource{Kind: policy.KindMeeting, OwnerID: m.CreatedByID, Members: m.ParticipantIDs()}
}

// List returns every meeting for admins and only the meetings the actor
// takes part in otherwise, newest first.
func (s *MeetingService) List(ctx context.Context, actor policy.Subject, status string) ([]models.Meeting, error) {
	if err := authorize(actor, policy.ActionList, policy.Resource{Kind: policy.KindMeeting}); err != nil {
		return nil, err
	}
	q := s.withRelations(ctx).Model(&models.Meeting{})
	if !actor.IsAdmin() {
		q = q.Where("id IN (?)",
			s.db.Table("meeting_participants").Select("meeting_id").Where("user_id = ?", actor.UserID))
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var meetings []models.Meeting
	err := q.Order("date DESC").Order("time DESC").Find(&meetings).Error
	return meetings, err
}

func (s *MeetingService) find(ctx context.Context, id uuid.UUID) (*models.Meeting, error) {
	var m models.Meeting
	err := s.withRelations(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMeetingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *MeetingService) Get(ctx context.Context, actor policy.Subject, id uuid.UUID) (*models.Meeting, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionView, meetingResource(m)); err != nil {
		return nil, err
	}
	return m, nil
}

// participants loads every id and fails unless all of them exist.
func (s *MeetingService) participants(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, validation.Fail("participants", "at least one participant is required")
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) != len(ids) {
		return nil, validation.Fail("participants", "some participants were not found")
	}
	return users, nil
}

func (s *MeetingService) Create(ctx context.Context, actor policy.Subject, req *dto.CreateMeetingRequest) (*models.Meeting, error) {
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindMeeting}); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, validation.Fail("date", "date must be a date (YYYY-MM-DD)")
	}
	users, err := s.participants(ctx, req.Participants)
	if err != nil {
		return nil, err
	}

	m := models.Meeting{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        date,
		Time:        req.Time,
		Location:    strings.TrimSpace(req.Location),
		Status:      req.Status,
		CreatedByID: actor.UserID,
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	rows := BuildAttendance(m.ID, orderedLike(req.Participants, ids))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
			return err
		}
		if err := tx.Model(&m).Association("Participants").Replace(users); err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	created, err := s.find(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, created, s.templates.MeetingInvitation)
	return created, nil
}

// orderedLike returns the members of ids in the order they first appear in
// requested.
func orderedLike(requested, ids []uuid.UUID) []uuid.UUID {
	known := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range uniqueIDs(requested) {
		if known[id] {
			out = append(out, id)
		}
	}
	return out
}

func (s *MeetingService) Update(ctx context.Context, actor policy.Subject, id uuid.UUID, req *dto.UpdateMeetingRequest) (*models.Meeting, error) {
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindMeeting}); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		m.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Date != nil {
		d, err := ParseDate(*req.Date)
		if err != nil {
			return nil, validation.Fail("date", "date must be a date (YYYY-MM-DD)")
		}
		m.Date = d
	}
	if req.Time != nil {
		m.Time = *req.Time
	}
	if req.Location != nil {
		m.Location = strings.TrimSpace(*req.Location)
	}
	if req.Status != nil {
		m.Status = *req.Status
	}

	var (
		users []models.User
		diff  AttendanceDiff
	)
	replace := len(req.Participants) > 0
	if replace {
		if users, err = s.participants(ctx, req.Participants); err != nil {
			return nil, err
		}
		diff = ReconcileAttendance(m.ID, m.Attendance, req.Participants)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
			return err
		}
		if !replace {
			return nil
		}
		if err := tx.Model(m).Association("Participants").Replace(users); err != nil {
			return err
		}
		for _, row := range diff.Remove {
			if err := tx.Delete(&models.MeetingAttendance{}, "id = ?", row.ID).Error; err != nil {
				return err
			}
		}
		if len(diff.Add) > 0 {
			return tx.Create(&diff.Add).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}

	updated, err := s.find(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, updated, s.templates.MeetingUpdated)
	return updated, nil
}

// announce mails every participant of m. Delivery failures are logged by
// mail.Dispatch and never fail the request.
func (s *MeetingService) announce(ctx context.Context, m *models.Meeting, render func(*models.Meeting, []models.User) ([]mail.Message, error)) {
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", m.ParticipantIDs()).Find(&users).Error; err != nil || len(users) == 0 {
		return
	}
	msgs, err := render(m, users)
	if err != nil {
		return
	}
	mail.Dispatch(ctx, s.mailer, msgs)
}

func (s *MeetingService) Delete(ctx context.Context, actor policy.Subject, id uuid.UUID) error {
	if err := authorize(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindMeeting}); err != nil {
		return err
	}
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM meeting_participants WHERE meeting_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&models.MeetingAttendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meeting_id = ?", id).Delete(&models.MeetingNote{}).Error; err != nil {
			return err
		}
		// Reports generated from the meeting outlive it.
		if err := tx.Model(&models.WorkReport{}).Where("meeting_id = ?", id).Update("meeting_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Meeting{}, "id = ?", id).Error
	})
}

func (s *MeetingService) MarkAttendance(ctx context.Context, actor policy.Subject, id uuid.UUID, req *dto.MarkAttendanceRequest) ([]models.MeetingAttendance, error) {
	if err := authorize(actor, policy.ActionAttend, policy.Resource{Kind: policy.KindMeeting}); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.HasParticipant(req.UserID) {
		return nil, validation.Fail("user_id", "user is not a participant of this meeting")
	}

	now := s.now()
	res := s.db.WithContext(ctx).Model(&models.MeetingAttendance{}).
		Where("meeting_id = ? AND user_id = ?", m.ID, req.UserID).
		Updates(map[string]interface{}{
			"status":       req.Status,
			"marked_at":    now,
			"marked_by_id": actor.UserID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Participant without a row: repair the missing row.
		row := BuildAttendance(m.ID, []uuid.UUID{req.UserID})[0]
		row.Status = req.Status
		row.MarkedAt = &now
		row.MarkedByID = &actor.UserID
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, err
		}
	}

	updated, err := s.find(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return updated.Attendance, nil
}

func (s *MeetingService) AddNote(ctx context.Context, actor policy.Subject, id uuid.UUID, req *dto.AddNoteRequest) ([]models.MeetingNote, error) {
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindMeeting}); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	note := models.MeetingNote{
		ID:        uuid.New(),
		MeetingID: id,
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		AuthorID:  actor.UserID,
	}
	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		return nil, err
	}
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.Notes, nil
}

func (s *MeetingService) DeleteNote(ctx context.Context, actor policy.Subject, id, noteID uuid.UUID) ([]models.MeetingNote, error) {
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindMeeting}); err != nil {
		return nil, err
	}
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Where("id = ? AND meeting_id = ?", noteID, id).Delete(&models.MeetingNote{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNoteNotFound
	}
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.Notes, nil
}

type MeetingReport struct {
	Meeting    *models.Meeting            `json:"meeting"`
	Attendance AttendanceCounts           `json:"attendance"`
	Details    []models.MeetingAttendance `json:"attendance_details"`
	NoteCount  int                        `json:"note_count"`
	Notes      []models.MeetingNote       `json:"notes"`
}

func (s *MeetingService) Report(ctx context.Context, actor policy.Subject, id uuid.UUID) (*MeetingReport, error) {
	m, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	counts := CountAttendance(m.Attendance)
	counts.Total = len(m.Participants)
	return &MeetingReport{
		Meeting:    m,
		Attendance: counts,
		Details:    m.Attendance,
		NoteCount:  len(m.Notes),
		Notes:      m.Notes,
	}, nil
}

// Planned returns planned meetings dated within [from, to), with their
// participants loaded in full for mailing.
func (s *MeetingService) Planned(ctx context.Context, from, to time.Time) ([]models.Meeting, error) {
	var meetings []models.Meeting
	err := s.db.WithContext(ctx).
		Preload("Participants").
		Where("status = ? AND date >= ? AND date < ?", models.MeetingPlanned, from, to).
		Order("date ASC").Order("time ASC").
		Find(&meetings).Error
	return meetings, err
}

// Remind mails a reminder for m to each participant and returns how many
// were accepted by the mailer.
func (s *MeetingService) Remind(ctx context.Context, m *models.Meeting) (int, error) {
	msgs, err := s.templates.MeetingReminder(m, m.Participants)
	if err != nil {
		return 0, err
	}
	return mail.Dispatch(ctx, s.mailer, msgs), nil
}
