package models

// Service lifecycle status values. A service only ever moves forward,
// from in progress to completed.
const (
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Payment status values derived from paid amount vs total.
const (
	PaymentPending = "Pending"
	PaymentPartial = "Partial"
	PaymentPaid    = "Paid"
)

// Customer owns zero or more vehicles. Phone and email are unique when set.
// JSON field names match the backup document layout.
type Customer struct {
	CustomerID int64  `json:"CustomerID"`
	Name       string `json:"Name"`
	Phone      string `json:"Phone"`
	Address    string `json:"Address"`
	Email      string `json:"Email"`
}

// Vehicle is keyed by its registration number (case-insensitive unique)
// and belongs to exactly one customer. Owner fields are populated on
// joined lookups only and never appear in backup documents.
type Vehicle struct {
	RegNumber       string `json:"RegNumber"`
	CustomerID      int64  `json:"CustomerID"`
	VehicleName     string `json:"VehicleName"`
	LastServiceDate string `json:"LastServiceDate"`
	LastReading     int64  `json:"LastReading"`
	ReminderDays    int    `json:"ReminderDays"`

	OwnerName    string `json:"OwnerName,omitempty"`
	OwnerPhone   string `json:"OwnerPhone,omitempty"`
	OwnerAddress string `json:"OwnerAddress,omitempty"`
	OwnerEmail   string `json:"OwnerEmail,omitempty"`
}

// ServiceLog is one unit of work on a vehicle. TimestampKey is a
// monotonically increasing sort key assigned at creation; it orders
// services chronologically but is not their identity.
type ServiceLog struct {
	ServiceLogID       int64   `json:"ServiceLogID"`
	RegNumber          string  `json:"RegNumber"`
	TimestampKey       int64   `json:"TimestampKey"`
	CurrentReading     int64   `json:"CurrentReading"`
	TotalAmount        float64 `json:"TotalAmount"`
	PaymentStatus      string  `json:"PaymentStatus"`
	PaidAmount         float64 `json:"PaidAmount"`
	Status             string  `json:"Status"`
	CompletedOn        string  `json:"CompletedOn"`
	OutstandingBalance float64 `json:"OutstandingBalance"`
	StartedOn          string  `json:"StartedOn"`

	OwnerName string `json:"OwnerName,omitempty"`
}

// ServicePart is an immutable line item on a service. It stores a copy of
// the name and amount, not a reference into the catalog.
type ServicePart struct {
	PartLogID    int64   `json:"PartLogID"`
	ServiceLogID int64   `json:"ServiceLogID"`
	PartName     string  `json:"PartName"`
	Amount       float64 `json:"Amount"`
}

// CommonService is an admin-managed catalog entry used to pre-fill new
// service line items. Independent of the customer/vehicle/service graph.
type CommonService struct {
	ServiceID     int64   `json:"ServiceID"`
	ServiceName   string  `json:"ServiceName"`
	DefaultAmount float64 `json:"DefaultAmount"`
}

// UserInfo is the singleton garage identity row.
type UserInfo struct {
	Name        string `json:"Name"`
	Email       string `json:"Email"`
	PhoneNumber string `json:"PhoneNumber"`
	GarageName  string `json:"GarageName"`
	Address     string `json:"Address"`
}
