package handler

type registerCustomerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=60"`
	LastName  string `json:"last_name"  validate:"required,max=60"`
	Email     string `json:"email"      validate:"required,email"`
	Mobile    string `json:"mobile"     validate:"omitempty,min=7,max=20"`
	Password  string `json:"password"   validate:"required,min=8,max=128"`
}

type registerCustomerResponse struct {
	ID           string `json:"id"`
	CustomerCode string `json:"customer_code"`
	Email        string `json:"email"`
	Status       string `json:"status"`
}
