package services

import "github.com/aleynaerrsln/meeting-management-system/internal/models"

// DetermineStatus derives a sponsorship status from the documents on file.
func DetermineStatus(hasPdf, hasSentEmail, hasResponseEmail bool) string {
	switch {
	case hasResponseEmail:
		return models.SponsorshipResponded
	case hasPdf && hasSentEmail:
		return models.SponsorshipContacted
	default:
		return models.SponsorshipPending
	}
}

// DerivedStatus returns the status s should have given its documents and
// whether it differs from the stored one. A recorded final decision is never
// overridden.
func DerivedStatus(s *models.Sponsorship) (string, bool) {
	if s.FinalDecision != nil {
		return s.Status, false
	}
	next := DetermineStatus(s.PdfReport.Present(), s.SentEmailScreenshot.Present(), s.ResponseEmailScreenshot.Present())
	return next, next != s.Status
}
