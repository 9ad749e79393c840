package dto

type CreateSponsorshipRequest struct {
	CompanyName        string `json:"company_name" form:"company_name" validate:"required,max=255"`
	CompanyEmail       string `json:"company_email" form:"company_email" validate:"required,email"`
	RequestDescription string `json:"request_description" form:"request_description" validate:"required"`
	Notes              string `json:"notes" form:"notes"`
}

type UpdateSponsorshipRequest struct {
	CompanyName        *string `json:"company_name" form:"company_name" validate:"omitempty,min=1,max=255"`
	CompanyEmail       *string `json:"company_email" form:"company_email" validate:"omitempty,email"`
	RequestDescription *string `json:"request_description" form:"request_description" validate:"omitempty,min=1"`
	Notes              *string `json:"notes" form:"notes"`
}

type SponsorshipDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Note     string `json:"note"`
}
