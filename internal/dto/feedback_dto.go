package dto

type SubmitFeedbackRequest struct {
	CaseId  *string `json:"case_id,omitempty"`
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment string  `json:"comment"`
}

type SubmitFeedbackResponse struct {
	Id string `json:"id"`
}
