package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
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

// briefUser limits preloaded users to the fields other records expose.
func briefUser(db *gorm.DB) *gorm.DB {
	return db.Select("id", "first_name", "last_name", "email", "role", "departments", "is_active")
}

type WorkReportService struct {
	db       *gorm.DB
	validate *validation.Validator
	blobs    storage.BlobStore
	notifier Notifier
	now      func() time.Time
}

func NewWorkReportService(db *gorm.DB, v *validation.Validator, blobs storage.BlobStore, notifier Notifier) *WorkReportService {
	return &WorkReportService{
		db:       db,
		validate: v,
		blobs:    blobs,
		notifier: notifier,
		now:      nowUTC,
	}
}

func (s *WorkReportService) withRelations(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("User", briefUser).
		Preload("CreatedBy", briefUser).
		Preload("SharedWith", briefUser).
		Preload("Attachments")
}

type WorkReportList struct {
	Reports    []models.WorkReport `json:"reports"`
	TotalHours float64             `json:"total_hours"`
}

// List returns the actor's own reports and the non-private reports shared
// with them. Admins see every report and may narrow by user.
func (s *WorkReportService) List(ctx context.Context, actor policy.Subject, f dto.WorkReportFilter) (*WorkReportList, error) {
	if err := authorize(actor, policy.ActionList, policy.Resource{Kind: policy.KindWorkReport}); err != nil {
		return nil, err
	}

	q := s.withRelations(ctx).Model(&models.WorkReport{})
	if actor.IsAdmin() {
		if f.UserID != nil {
			q = q.Where("user_id = ?", *f.UserID)
		}
	} else {
		q = q.Where("user_id = ? OR (is_private = ? AND id IN (?))",
			actor.UserID, false,
			s.db.Table("work_report_shares").Select("work_report_id").Where("user_id = ?", actor.UserID),
		)
	}
	q = applyReportFilter(q, f)

	var list WorkReportList
	if err := q.Order("date DESC").Order("created_at DESC").Find(&list.Reports).Error; err != nil {
		return nil, err
	}
	for _, r := range list.Reports {
		list.TotalHours += r.HoursWorked
	}
	list.TotalHours = round2(list.TotalHours)
	return &list, nil
}

func applyReportFilter(q *gorm.DB, f dto.WorkReportFilter) *gorm.DB {
	if f.Month > 0 && f.Year > 0 {
		start, end := MonthRange(f.Year, f.Month)
		q = q.Where("date >= ? AND date < ?", start, end)
	} else {
		if f.Week > 0 {
			q = q.Where("week = ?", f.Week)
		}
		if f.Year > 0 {
			q = q.Where("year = ?", f.Year)
		}
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	return q
}

func (s *WorkReportService) find(ctx context.Context, id uuid.UUID) (*models.WorkReport, error) {
	var r models.WorkReport
	err := s.withRelations(ctx).First(&r, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *WorkReportService) Get(ctx context.Context, actor policy.Subject, id uuid.UUID) (*models.WorkReport, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionView, reportResource(r)); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *WorkReportService) Create(ctx context.Context, actor policy.Subject, req *dto.CreateWorkReportRequest) (*models.WorkReport, error) {
	if err := authorize(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindWorkReport}); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	owner := actor.UserID
	if req.UserID != nil && *req.UserID != actor.UserID {
		if !actor.IsAdmin() {
			return nil, fmt.Errorf("%w: only admins may file reports for other users", ErrForbidden)
		}
		owner = *req.UserID
	}
	if (len(req.SharedWith) > 0 || req.IsPrivate != nil) && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins may set sharing or privacy", ErrForbidden)
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, validation.Fail("date", "date must be a date (YYYY-MM-DD)")
	}
	r := models.WorkReport{
		ID:              uuid.New(),
		UserID:          owner,
		Date:            date,
		WorkDescription: strings.TrimSpace(req.WorkDescription),
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Project:         req.Project,
		Notes:           req.Notes,
		Status:          req.Status,
		CreatedByID:     actor.UserID,
	}
	if req.IsPrivate != nil {
		r.IsPrivate = *req.IsPrivate
	}
	if err := applyPeriod(&r); err != nil {
		return nil, err
	}

	shared, err := s.users(ctx, req.SharedWith)
	if err != nil {
		return nil, err
	}
	if _, err := s.userByID(ctx, owner); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&r).Error; err != nil {
			return err
		}
		if len(shared) > 0 {
			return tx.Model(&r).Association("SharedWith").Replace(shared)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create work report: %w", err)
	}

	for _, u := range shared {
		if u.ID != r.UserID {
			s.notifier.Notify(ctx, shareNotification(&r, u.ID))
		}
	}
	return s.find(ctx, r.ID)
}

func (s *WorkReportService) Update(ctx context.Context, actor policy.Subject, id uuid.UUID, req *dto.UpdateWorkReportRequest) (*models.WorkReport, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	change, err := planReportUpdate(actor, r, req)
	if err != nil {
		return nil, err
	}

	var shared []models.User
	if change.Shares != nil {
		if shared, err = s.users(ctx, change.Shares); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(r).Error; err != nil {
			return err
		}
		if change.Shares != nil {
			return tx.Model(r).Association("SharedWith").Replace(shared)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update work report: %w", err)
	}

	if change.Notify != "" {
		if change.Repeated {
			slog.Info("work report review repeated",
				"action", "review_report",
				"user_id", actor.UserID.String(),
				"report_id", r.ID.String(),
				"status", r.Status,
				"repeated", true,
			)
		}
		s.notifier.Notify(ctx, reviewNotification(r, change.Notify))
	}
	for _, uid := range change.NewlyShared {
		s.notifier.Notify(ctx, shareNotification(r, uid))
	}
	return s.find(ctx, r.ID)
}

func (s *WorkReportService) Submit(ctx context.Context, actor policy.Subject, id uuid.UUID) (*models.WorkReport, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := planSubmit(actor, r); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(r).Update("status", r.Status).Error; err != nil {
		return nil, err
	}
	return r, nil
}

func (s *WorkReportService) Delete(ctx context.Context, actor policy.Subject, id uuid.UUID) error {
	r, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, policy.ActionDelete, reportResource(r)); err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM work_report_shares WHERE work_report_id = ?", r.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("work_report_id = ?", r.ID).Delete(&models.WorkReportAttachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.WorkReport{}, "id = ?", r.ID).Error
	})
	if err != nil {
		return err
	}
	for _, a := range r.Attachments {
		discardBlob(ctx, s.blobs, a.FileMeta)
	}
	return nil
}

// AddAttachments stores uploads on a report the actor may update.
func (s *WorkReportService) AddAttachments(ctx context.Context, actor policy.Subject, id uuid.UUID, uploads []*Upload) (*models.WorkReport, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ActionUpdate, reportResource(r)); err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, validation.Fail("attachments", "at least one file is required")
	}

	rows := make([]models.WorkReportAttachment, 0, len(uploads))
	for _, up := range uploads {
		meta, err := storeUpload(ctx, s.blobs, up, s.now())
		if err != nil {
			for _, row := range rows {
				discardBlob(ctx, s.blobs, row.FileMeta)
			}
			return nil, err
		}
		rows = append(rows, models.WorkReportAttachment{ID: uuid.New(), WorkReportID: r.ID, FileMeta: meta})
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		for _, row := range rows {
			discardBlob(ctx, s.blobs, row.FileMeta)
		}
		return nil, err
	}
	return s.find(ctx, r.ID)
}

func (s *WorkReportService) attachment(r *models.WorkReport, attachmentID uuid.UUID) (*models.WorkReportAttachment, error) {
	for i := range r.Attachments {
		if r.Attachments[i].ID == attachmentID {
			return &r.Attachments[i], nil
		}
	}
	return nil, ErrAttachmentNotFound
}

func (s *WorkReportService) Attachment(ctx context.Context, actor policy.Subject, id, attachmentID uuid.UUID) (*File, error) {
	r, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	a, err := s.attachment(r, attachmentID)
	if err != nil {
		return nil, err
	}
	return loadFile(ctx, s.blobs, a.FileMeta)
}

func (s *WorkReportService) DeleteAttachment(ctx context.Context, actor policy.Subject, id, attachmentID uuid.UUID) error {
	r, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(actor, policy.ActionUpdate, reportResource(r)); err != nil {
		return err
	}
	a, err := s.attachment(r, attachmentID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(a).Error; err != nil {
		return err
	}
	discardBlob(ctx, s.blobs, a.FileMeta)
	return nil
}

// summaryTarget resolves whose summary is requested. Only admins may ask
// for someone else.
func summaryTarget(actor policy.Subject, userID *uuid.UUID) (uuid.UUID, error) {
	if userID == nil || *userID == actor.UserID {
		return actor.UserID, nil
	}
	if err := authorize(actor, policy.ActionViewAll, policy.Resource{Kind: policy.KindWorkReport}); err != nil {
		return uuid.Nil, err
	}
	return *userID, nil
}

func (s *WorkReportService) countedReports(ctx context.Context, userID uuid.UUID, f dto.WorkReportFilter) ([]models.WorkReport, error) {
	var reports []models.WorkReport
	q := s.db.WithContext(ctx).Where("user_id = ? AND status IN ?", userID, models.CountedReportStatuses)
	err := applyReportFilter(q, f).Order("date ASC").Find(&reports).Error
	return reports, err
}

func (s *WorkReportService) Weekly(ctx context.Context, actor policy.Subject, userID *uuid.UUID, week, year int) (*PeriodSummary, error) {
	if week < 1 || week > 54 {
		return nil, validation.Fail("week", "week must be between 1 and 54")
	}
	if year < 1 {
		return nil, validation.Fail("year", "year is required")
	}
	target, err := summaryTarget(actor, userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userByID(ctx, target)
	if err != nil {
		return nil, err
	}
	reports, err := s.countedReports(ctx, target, dto.WorkReportFilter{Week: week, Year: year})
	if err != nil {
		return nil, err
	}
	total, kept := summarize(reports)
	return &PeriodSummary{User: user.Summary(), Week: week, Year: year, TotalHours: total, ReportCount: len(kept), Reports: kept}, nil
}

func (s *WorkReportService) Monthly(ctx context.Context, actor policy.Subject, userID *uuid.UUID, month, year int) (*PeriodSummary, error) {
	if month < 1 || month > 12 {
		return nil, validation.Fail("month", "month must be between 1 and 12")
	}
	if year < 1 {
		return nil, validation.Fail("year", "year is required")
	}
	target, err := summaryTarget(actor, userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userByID(ctx, target)
	if err != nil {
		return nil, err
	}
	reports, err := s.countedReports(ctx, target, dto.WorkReportFilter{Month: month, Year: year})
	if err != nil {
		return nil, err
	}
	total, kept := summarize(reports)
	return &PeriodSummary{User: user.Summary(), Month: month, Year: year, TotalHours: total, ReportCount: len(kept), Reports: kept}, nil
}

type AllUsersSummary struct {
	Week       int             `json:"week,omitempty"`
	Month      int             `json:"month,omitempty"`
	Year       int             `json:"year"`
	Users      []PeriodSummary `json:"users"`
	GrandTotal float64         `json:"grand_total"`
}

// AllUsers totals every active user for a week or a month. With neither
// given it uses the current week.
func (s *WorkReportService) AllUsers(ctx context.Context, actor policy.Subject, week, month, year int) (*AllUsersSummary, error) {
	if err := authorize(actor, policy.ActionViewAll, policy.Resource{Kind: policy.KindWorkReport}); err != nil {
		return nil, err
	}
	var f dto.WorkReportFilter
	switch {
	case month > 0 && year > 0:
		f = dto.WorkReportFilter{Month: month, Year: year}
	case week > 0 && year > 0:
		f = dto.WorkReportFilter{Week: week, Year: year}
	default:
		f.Week, f.Year = WeekOfYear(s.now())
	}

	users, err := activeUsers(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := &AllUsersSummary{Week: f.Week, Month: f.Month, Year: f.Year, Users: make([]PeriodSummary, 0, len(users))}
	for i := range users {
		reports, err := s.countedReports(ctx, users[i].ID, f)
		if err != nil {
			return nil, err
		}
		total, kept := summarize(reports)
		out.Users = append(out.Users, PeriodSummary{
			User:        users[i].Summary(),
			Week:        f.Week,
			Month:       f.Month,
			Year:        f.Year,
			TotalHours:  total,
			ReportCount: len(kept),
		})
		out.GrandTotal += total
	}
	sort.SliceStable(out.Users, func(i, j int) bool {
		return out.Users[i].TotalHours > out.Users[j].TotalHours
	})
	out.GrandTotal = round2(out.GrandTotal)
	return out, nil
}

// CreateFromMeeting files an approved report summarising a completed
// meeting and its notes.
func (s *WorkReportService) CreateFromMeeting(ctx context.Context, actor policy.Subject, meetingID uuid.UUID, req *dto.CreateReportFromMeetingRequest) (*models.WorkReport, error) {
	if err := authorize(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindMeeting}); err != nil {
		return nil, err
	}
	var m models.Meeting
	err := s.db.WithContext(ctx).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&m, "id = ?", meetingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMeetingNotFound
	}
	if err != nil {
		return nil, err
	}
	if m.Status != models.MeetingCompleted {
		return nil, validation.Fail("status", "only completed meetings can be turned into a report")
	}

	owner := actor.UserID
	if req.AssignToUser != nil {
		if _, err := s.userByID(ctx, *req.AssignToUser); err != nil {
			return nil, err
		}
		owner = *req.AssignToUser
	}
	shared, err := s.users(ctx, req.SharedWith)
	if err != nil {
		return nil, err
	}

	start, ok := ParseClock(m.Time)
	if !ok {
		return nil, validation.Fail("time", "meeting time is not in HH:MM format")
	}
	end := (start + 120) % minutesPerDay
	r := models.WorkReport{
		ID:              uuid.New(),
		UserID:          owner,
		MeetingID:       &m.ID,
		Date:            m.Date,
		WorkDescription: meetingReportDescription(&m),
		StartTime:       m.Time,
		EndTime:         fmt.Sprintf("%02d:%02d", end/60, end%60),
		Project:         m.Title,
		Notes:           fmt.Sprintf("This report was generated automatically from the meeting %q.", m.Title),
		Status:          models.ReportApproved,
		IsPrivate:       req.IsPrivate,
		CreatedByID:     actor.UserID,
	}
	if err := applyPeriod(&r); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&r).Error; err != nil {
			return err
		}
		if len(shared) > 0 {
			return tx.Model(&r).Association("SharedWith").Replace(shared)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create work report from meeting: %w", err)
	}
	for _, u := range shared {
		if u.ID != r.UserID {
			s.notifier.Notify(ctx, shareNotification(&r, u.ID))
		}
	}
	return s.find(ctx, r.ID)
}

// users loads ids and fails when any of them is unknown.
func (s *WorkReportService) users(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	if len(users) != len(ids) {
		return nil, validation.Fail("shared_with", "one or more users do not exist")
	}
	return users, nil
}

func (s *WorkReportService) userByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
