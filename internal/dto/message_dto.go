package dto

type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" form:"receiver_id" validate:"required,uuid"`
	Subject    string `json:"subject" form:"subject" validate:"max=255"`
	Content    string `json:"content" form:"content" validate:"required"`
}
