package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/export"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workbook is a rendered export ready to be sent as a download.
type Workbook struct {
	Filename string
	Data     []byte
}

type ExportService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewExportService(db *gorm.DB, loc *time.Location) *ExportService {
	return &ExportService{db: db, loc: loc, now: nowUTC}
}

func (s *ExportService) workbook(prefix string, sheet *export.Sheet) (*Workbook, error) {
	data, err := sheet.Build()
	if err != nil {
		return nil, err
	}
	return &Workbook{
		Filename: fmt.Sprintf("%s-%d.xlsx", prefix, s.now().UnixMilli()),
		Data:     data,
	}, nil
}

func (s *ExportService) WorkReports(ctx context.Context, actor policy.Subject, f dto.WorkReportFilter) (*Workbook, error) {
	if err := authorize(actor, policy.ActionExport, policy.Resource{Kind: policy.KindExport}); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).Preload("User", briefUser).Model(&models.WorkReport{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	var reports []models.WorkReport
	if err := applyReportFilter(q, f).Order("date DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return s.workbook("work-reports", export.WorkReports(reports))
}

// MeetingFilter narrows the meetings export. From and To are inclusive days.
type MeetingFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
}

func (s *ExportService) Meetings(ctx context.Context, actor policy.Subject, f MeetingFilter) (*Workbook, error) {
	if err := authorize(actor, policy.ActionExport, policy.Resource{Kind: policy.KindExport}); err != nil {
		return nil, err
	}
	q := s.db.WithContext(ctx).
		Preload("Participants", briefUser).
		Preload("CreatedBy", briefUser).
		Model(&models.Meeting{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil && f.To != nil {
		q = q.Where("date >= ? AND date < ?", *f.From, f.To.AddDate(0, 0, 1))
	}
	var meetings []models.Meeting
	if err := q.Order("date ASC").Find(&meetings).Error; err != nil {
		return nil, err
	}
	return s.workbook("meetings", export.Meetings(meetings))
}

func (s *ExportService) Attendance(ctx context.Context, actor policy.Subject, meetingID uuid.UUID) (*Workbook, error) {
	if err := authorize(actor, policy.ActionExport, policy.Resource{Kind: policy.KindExport}); err != nil {
		return nil, err
	}
	var m models.Meeting
	err := s.db.WithContext(ctx).
		Preload("Attendance.User", briefUser).
		Preload("Attendance.MarkedBy", briefUser).
		First(&m, "id = ?", meetingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMeetingNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.workbook("attendance-"+m.ID.String(), export.Attendance(&m, s.loc))
}

// Productivity totals hours per active user over the inclusive day range.
func (s *ExportService) Productivity(ctx context.Context, actor policy.Subject, from, to *time.Time) (*Workbook, error) {
	if err := authorize(actor, policy.ActionExport, policy.Resource{Kind: policy.KindExport}); err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, validation.Fail("start_date", "start and end dates are required")
	}
	users, err := activeUsers(ctx, s.db)
	if err != nil {
		return nil, err
	}
	var reports []models.WorkReport
	if err := s.db.WithContext(ctx).
		Where("date >= ? AND date < ? AND status IN ?", *from, to.AddDate(0, 0, 1), models.CountedReportStatuses).
		Find(&reports).Error; err != nil {
		return nil, err
	}
	rows := export.ComputeProductivity(users, reports)
	return s.workbook("productivity", export.Productivity(rows))
}
