package models

type ContactRequest struct {
	Name    string `json:"name"    validate:"required,min=2,max=100"`
	Phone   string `json:"phone"   validate:"required,min=7,max=20"`
	Email   string `json:"email"   validate:"required,email"`
	Message string `json:"message" validate:"max=2000"`
}

type ContactReceipt struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
