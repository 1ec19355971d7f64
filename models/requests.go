package models

// RegisterVehicleRequest creates a customer and their vehicle together on
// first registration. When a customer with the same phone already exists,
// the vehicle is attached to that customer instead.
type RegisterVehicleRequest struct {
	RegNumber    string `json:"regNumber" validate:"required,regnumber"`
	OwnerName    string `json:"ownerName" validate:"required,min=1,max=100"`
	Phone        string `json:"phone" validate:"omitempty,phone"`
	Address      string `json:"address" validate:"max=250"`
	Email        string `json:"email" validate:"omitempty,email"`
	VehicleName  string `json:"vehicleName" validate:"max=100"`
	ReminderDays int    `json:"reminderDays" validate:"gte=0,lte=3650"`
}

// ServiceLineItem is one pre-filled or free-form line on a new service.
type ServiceLineItem struct {
	PartName string  `json:"partName" validate:"required,max=100"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

type StartServiceRequest struct {
	RegNumber      string            `json:"regNumber" validate:"required,regnumber"`
	CurrentReading int64             `json:"currentReading" validate:"gte=0"`
	Items          []ServiceLineItem `json:"items" validate:"required,min=1,dive"`
}

type RecordPaymentRequest struct {
	PaidAmount float64 `json:"paidAmount" validate:"gte=0"`
}

type AddPartRequest struct {
	PartName string  `json:"partName" validate:"required,max=100"`
	Amount   float64 `json:"amount" validate:"gte=0"`
}

type CommonServiceRequest struct {
	ServiceName   string  `json:"serviceName" validate:"required,max=100"`
	DefaultAmount float64 `json:"defaultAmount" validate:"gte=0"`
}

type UpdateUserInfoRequest struct {
	Name        string `json:"name" validate:"max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone"`
	GarageName  string `json:"garageName" validate:"max=100"`
	Address     string `json:"address" validate:"max=250"`
}

// SignInRequest carries an access credential already obtained through the
// OAuth consent flow. The server never runs the consent flow itself.
type SignInRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}
