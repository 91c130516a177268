package identityservice

// Customer модель клиента из IdentityService
type Customer struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Vehicle модель автомобиля из IdentityService
type Vehicle struct {
	ID           int64  `json:"id"`
	OwnerID      int64  `json:"owner_id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	LicensePlate string `json:"license_plate"`
	Year         int    `json:"year"`
}

// Employee модель сотрудника из IdentityService
type Employee struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

// ErrorResponse модель ошибки от IdentityService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
