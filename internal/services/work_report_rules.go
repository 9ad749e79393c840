package services

import (
	"fmt"
	"strings"

	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/google/uuid"
)

// reportResource describes r for policy checks. Private reports are not
// readable through the share list.
func reportResource(r *models.WorkReport) policy.Resource {
	res := policy.Resource{Kind: policy.KindWorkReport, OwnerID: r.UserID}
	if !r.IsPrivate {
		res.Members = r.SharedWithIDs()
	}
	return res
}

// applyPeriod sets hours, week and year from the report's date and times.
func applyPeriod(r *models.WorkReport) error {
	hours, err := CalculateHours(r.StartTime, r.EndTime)
	if err != nil {
		return err
	}
	r.HoursWorked = hours
	r.Week, r.Year = WeekOfYear(r.Date)
	return nil
}

// reportChange is what an update did beyond the column changes on the
// report itself.
type reportChange struct {
	// Notify is the notification type owed to the owner, if any.
	Notify string
	// Repeated marks a review that set the status the report already had.
	Repeated bool
	// Shares, when non-nil, replaces the share list.
	Shares []uuid.UUID
	// NewlyShared lists users added to the share list by this update.
	NewlyShared []uuid.UUID
}

// planReportUpdate validates and applies req to r in memory. Nothing is
// modified when an error is returned.
func planReportUpdate(actor policy.Subject, r *models.WorkReport, req *dto.UpdateWorkReportRequest) (reportChange, error) {
	var change reportChange
	if err := authorize(actor, policy.ActionUpdate, reportResource(r)); err != nil {
		return change, err
	}
	if req.TouchesReview() {
		if err := authorize(actor, policy.ActionReview, reportResource(r)); err != nil {
			return change, fmt.Errorf("only admins may change status, sharing or privacy: %w", err)
		}
	}

	next := *r
	if req.Date != nil {
		d, err := ParseDate(*req.Date)
		if err != nil {
			return change, validation.Fail("date", "date must be a date (YYYY-MM-DD)")
		}
		next.Date = d
	}
	if req.StartTime != nil {
		next.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		next.EndTime = *req.EndTime
	}
	if req.TouchesPeriod() {
		if err := applyPeriod(&next); err != nil {
			return change, err
		}
	}
	if req.WorkDescription != nil {
		next.WorkDescription = strings.TrimSpace(*req.WorkDescription)
	}
	if req.Project != nil {
		next.Project = *req.Project
	}
	if req.Notes != nil {
		next.Notes = *req.Notes
	}

	if req.Status != nil {
		change.Repeated = next.Status == *req.Status
		next.Status = *req.Status
		switch next.Status {
		case models.ReportApproved:
			next.RejectionReason = ""
			change.Notify = models.NotifyReportApproved
		case models.ReportRejected:
			if req.RejectionReason != nil {
				next.RejectionReason = strings.TrimSpace(*req.RejectionReason)
			}
			change.Notify = models.NotifyReportRejected
		}
	}
	if req.IsPrivate != nil {
		next.IsPrivate = *req.IsPrivate
	}
	if req.SharedWith != nil {
		change.Shares = uniqueIDs(*req.SharedWith)
		existing := make(map[uuid.UUID]bool, len(r.SharedWith))
		for _, u := range r.SharedWith {
			existing[u.ID] = true
		}
		for _, id := range change.Shares {
			if !existing[id] && id != next.UserID {
				change.NewlyShared = append(change.NewlyShared, id)
			}
		}
	}

	*r = next
	return change, nil
}

// planSubmit moves a draft or rejected report owned by actor to submitted.
func planSubmit(actor policy.Subject, r *models.WorkReport) error {
	if err := authorize(actor, policy.ActionSubmit, reportResource(r)); err != nil {
		return err
	}
	if r.Status != models.ReportDraft && r.Status != models.ReportRejected {
		return validation.Fail("status", "only draft or rejected reports can be submitted")
	}
	r.Status = models.ReportSubmitted
	return nil
}

// reviewNotification builds the owner notification for a status review.
func reviewNotification(r *models.WorkReport, kind string) *models.Notification {
	n := &models.Notification{
		UserID:          r.UserID,
		Type:            kind,
		RelatedReportID: &r.ID,
	}
	when := r.Date.Format("02.01.2006")
	switch kind {
	case models.NotifyReportApproved:
		n.Title = "Work report approved"
		n.Message = fmt.Sprintf("Your work report for %s was approved.", when)
	case models.NotifyReportRejected:
		n.Title = "Work report rejected"
		n.Message = fmt.Sprintf("Your work report for %s was rejected.", when)
		if r.RejectionReason != "" {
			n.Message += " Reason: " + r.RejectionReason
		}
	}
	return n
}

func shareNotification(r *models.WorkReport, userID uuid.UUID) *models.Notification {
	return &models.Notification{
		UserID:          userID,
		Type:            models.NotifyReportShared,
		Title:           "Work report shared with you",
		Message:         fmt.Sprintf("A work report for %s was shared with you.", r.Date.Format("02.01.2006")),
		RelatedReportID: &r.ID,
	}
}

// meetingReportDescription renders a completed meeting and its notes into
// the body of the generated work report.
func meetingReportDescription(m *models.Meeting) string {
	var body string
	if len(m.Notes) == 0 {
		body = "Meeting completed. No notes were added."
	} else {
		parts := make([]string, 0, len(m.Notes))
		for i, n := range m.Notes {
			parts = append(parts, fmt.Sprintf("%d. %s\n%s\n---", i+1, n.Title, n.Content))
		}
		body = strings.Join(parts, "\n\n")
	}
	return fmt.Sprintf("MEETING REPORT: %s\n\nLocation: %s\nDate: %s %s\n\n%s",
		m.Title, m.Location, m.Date.UTC().Format("02.01.2006"), m.Time, body)
}

// PeriodSummary is the weekly or monthly total for one user.
type PeriodSummary struct {
	User        models.UserSummary  `json:"user"`
	Week        int                 `json:"week,omitempty"`
	Month       int                 `json:"month,omitempty"`
	Year        int                 `json:"year"`
	TotalHours  float64             `json:"total_hours"`
	ReportCount int                 `json:"report_count"`
	Reports     []models.WorkReport `json:"reports,omitempty"`
}

// summarize totals the counted reports and drops the rest.
func summarize(reports []models.WorkReport) (float64, []models.WorkReport) {
	var total float64
	kept := make([]models.WorkReport, 0, len(reports))
	for _, r := range reports {
		if r.Status != models.ReportSubmitted && r.Status != models.ReportApproved {
			continue
		}
		total += r.HoursWorked
		kept = append(kept, r)
	}
	return round2(total), kept
}
