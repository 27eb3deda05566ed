package domain

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID           int64         `json:"id"`
	ExperienceID int64         `json:"experience_id"`
	UserID       int64         `json:"user_id"`
	Seats        int           `json:"seats"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

type BookingRequest struct {
	Seats *int `json:"seats"`
}

func (r *BookingRequest) Validate() []string {
	var details []string
	if r.Seats == nil {
		details = append(details, "seats is required")
		return details
	}
	if *r.Seats < 1 {
		details = append(details, "seats must be an integer >= 1")
	}
	return details
}
