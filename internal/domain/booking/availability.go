package booking

import "time"

type AvailabilityStatus string

const (
	Available   AvailabilityStatus = "AVAILABLE"
	Unavailable AvailabilityStatus = "UNAVAILABLE"
	CheckError  AvailabilityStatus = "ERROR"
)

type UnavailableReason string

const (
	ReasonNoShifts     UnavailableReason = "NO_SHIFTS_DEFINED"
	ReasonOutsideShift UnavailableReason = "OUTSIDE_SHIFT_HOURS"
	ReasonConflict     UnavailableReason = "BOOKING_CONFLICT"
)

type AvailabilityInput struct {
	BarberID        string
	ShopID          *string
	StartDatetime   time.Time
	DurationMinutes int
	ContextType     string
}

type AvailabilityResult struct {
	Status  AvailabilityStatus `json:"status"`
	Reason  UnavailableReason  `json:"reason,omitempty"`
	Message string             `json:"message,omitempty"`
}

func Ok() AvailabilityResult {
	return AvailabilityResult{Status: Available}
}

func NotAvailable(reason UnavailableReason, message string) AvailabilityResult {
	return AvailabilityResult{Status: Unavailable, Reason: reason, Message: message}
}

func Errorf(message string) AvailabilityResult {
	return AvailabilityResult{Status: CheckError, Message: message}
}
