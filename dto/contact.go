package dto

type SubmitContactDTO struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
}

type UpdateContactDTO struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}
