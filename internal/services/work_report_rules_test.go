package services

import (
	"errors"
	"testing"
	"time"

	"github.com/aleynaerrsln/meeting-management-system/internal/dto"
	"github.com/aleynaerrsln/meeting-management-system/internal/models"
	"github.com/aleynaerrsln/meeting-management-system/internal/policy"
	"github.com/aleynaerrsln/meeting-management-system/internal/validation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func newReport(owner uuid.UUID, status string) *models.WorkReport {
	r := &models.WorkReport{
		ID:        uuid.New(),
		UserID:    owner,
		Date:      time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "12:00",
		Status:    status,
	}
	_ = applyPeriod(r)
	return r
}

func TestPlanReportUpdateOwnerCannotReview(t *testing.T) {
	owner := policy.Subject{UserID: uuid.New(), Role: policy.RoleUser}
	r := newReport(owner.UserID, models.ReportSubmitted)
	before := *r

	for name, req := range map[string]*dto.UpdateWorkReportRequest{
		"status":  {Status: strPtr(models.ReportApproved), Notes: strPtr("x")},
		"private": {IsPrivate: boolPtr(true)},
		"shares":  {SharedWith: &[]uuid.UUID{uuid.New()}},
	} {
		_, err := planReportUpdate(owner, r, req)
		assert.ErrorIs(t, err, ErrForbidden, name)
		assert.Equal(t, before, *r, name)
	}
}

func TestPlanReportUpdateOwnerEditsContent(t *testing.T) {
	owner := policy.Subject{UserID: uuid.New(), Role: policy.RoleUser}
	r := newReport(owner.UserID, models.ReportRejected)

	change, err := planReportUpdate(owner, r, &dto.UpdateWorkReportRequest{
		EndTime: strPtr("17:30"),
		Project: strPtr("Website"),
	})
	require.NoError(t, err)
	assert.Empty(t, change.Notify)
	assert.Equal(t, 8.5, r.HoursWorked)
	assert.Equal(t, "Website", r.Project)
	assert.Equal(t, models.ReportRejected, r.Status)
}

func TestPlanReportUpdateStrangerForbidden(t *testing.T) {
	stranger := policy.Subject{UserID: uuid.New(), Role: policy.RoleUser}
	r := newReport(uuid.New(), models.ReportSubmitted)
	_, err := planReportUpdate(stranger, r, &dto.UpdateWorkReportRequest{Notes: strPtr("x")})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPlanReportUpdateRecomputesPeriod(t *testing.T) {
	admin := policy.Subject{UserID: uuid.New(), Role: policy.RoleAdmin}
	r := newReport(uuid.New(), models.ReportSubmitted)
	assert.Equal(t, 2, r.Week)

	_, err := planReportUpdate(admin, r, &dto.UpdateWorkReportRequest{Date: strPtr("2024-03-01")})
	require.NoError(t, err)
	assert.Equal(t, 9, r.Week)
	assert.Equal(t, 2024, r.Year)

	_, err = planReportUpdate(admin, r, &dto.UpdateWorkReportRequest{StartTime: strPtr("12:00")})
	assert.True(t, validation.IsValidation(err))
	assert.Equal(t, "09:00", r.StartTime)
}

func TestPlanReportUpdateReviewNotifies(t *testing.T) {
	admin := policy.Subject{UserID: uuid.New(), Role: policy.RoleAdmin}
	r := newReport(uuid.New(), models.ReportSubmitted)

	change, err := planReportUpdate(admin, r, &dto.UpdateWorkReportRequest{
		Status:          strPtr(models.ReportRejected),
		RejectionReason: strPtr("missing details"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.NotifyReportRejected, change.Notify)
	assert.False(t, change.Repeated)
	assert.Equal(t, "missing details", r.RejectionReason)

	change, err = planReportUpdate(admin, r, &dto.UpdateWorkReportRequest{Status: strPtr(models.ReportApproved)})
	require.NoError(t, err)
	assert.Equal(t, models.NotifyReportApproved, change.Notify)
	assert.Empty(t, r.RejectionReason)

	// Approving again still owes a notification.
	change, err = planReportUpdate(admin, r, &dto.UpdateWorkReportRequest{Status: strPtr(models.ReportApproved)})
	require.NoError(t, err)
	assert.Equal(t, models.NotifyReportApproved, change.Notify)
	assert.True(t, change.Repeated)
}

func TestPlanReportUpdateShares(t *testing.T) {
	admin := policy.Subject{UserID: uuid.New(), Role: policy.RoleAdmin}
	r := newReport(uuid.New(), models.ReportSubmitted)
	kept, added := uuid.New(), uuid.New()
	r.SharedWith = []models.User{{ID: kept}}

	change, err := planReportUpdate(admin, r, &dto.UpdateWorkReportRequest{
		SharedWith: &[]uuid.UUID{kept, added, added, r.UserID},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{kept, added, r.UserID}, change.Shares)
	assert.Equal(t, []uuid.UUID{added}, change.NewlyShared)
}

func TestPlanSubmit(t *testing.T) {
	owner := policy.Subject{UserID: uuid.New(), Role: policy.RoleUser}
	r := newReport(owner.UserID, models.ReportRejected)
	require.NoError(t, planSubmit(owner, r))
	assert.Equal(t, models.ReportSubmitted, r.Status)

	err := planSubmit(owner, r)
	assert.True(t, validation.IsValidation(err))

	other := policy.Subject{UserID: uuid.New(), Role: policy.RoleAdmin}
	draft := newReport(owner.UserID, models.ReportDraft)
	assert.True(t, errors.Is(planSubmit(other, draft), ErrForbidden))
}

func TestReportResourceHidesPrivateShares(t *testing.T) {
	viewer := uuid.New()
	r := newReport(uuid.New(), models.ReportSubmitted)
	r.SharedWith = []models.User{{ID: viewer}}
	sub := policy.Subject{UserID: viewer, Role: policy.RoleUser}

	assert.True(t, policy.Evaluate(sub, policy.ActionView, reportResource(r)).Allowed())
	r.IsPrivate = true
	assert.False(t, policy.Evaluate(sub, policy.ActionView, reportResource(r)).Allowed())
}

func TestSummarizeCountsSubmittedAndApproved(t *testing.T) {
	reports := []models.WorkReport{
		{HoursWorked: 3, Status: models.ReportSubmitted},
		{HoursWorked: 5, Status: models.ReportDraft},
		{HoursWorked: 2, Status: models.ReportRejected},
		{HoursWorked: 4, Status: models.ReportApproved},
	}
	total, kept := summarize(reports)
	assert.Equal(t, 7.0, total)
	assert.Len(t, kept, 2)
}

func TestMeetingReportDescription(t *testing.T) {
	m := &models.Meeting{
		Title:    "Kickoff",
		Location: "HQ",
		Date:     time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		Time:     "10:00",
	}
	desc := meetingReportDescription(m)
	assert.Contains(t, desc, "MEETING REPORT: Kickoff")
	assert.Contains(t, desc, "05.02.2024 10:00")
	assert.Contains(t, desc, "No notes were added.")

	m.Notes = []models.MeetingNote{{Title: "Scope", Content: "Agreed"}, {Title: "Dates", Content: "Q2"}}
	desc = meetingReportDescription(m)
	assert.Contains(t, desc, "1. Scope\nAgreed\n---\n\n2. Dates\nQ2\n---")
}

func TestReviewNotification(t *testing.T) {
	r := newReport(uuid.New(), models.ReportRejected)
	r.RejectionReason = "too short"
	n := reviewNotification(r, models.NotifyReportRejected)
	assert.Equal(t, r.UserID, n.UserID)
	assert.Equal(t, r.ID, *n.RelatedReportID)
	assert.Contains(t, n.Message, "too short")
}
