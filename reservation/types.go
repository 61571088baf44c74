package reservation

import (
	"errors"
	"strings"
)

type Reservation struct {
	ID         int64   `json:"id"`
	RoomID     int64   `json:"room_id"`
	TimeSlotID int64   `json:"time_slot_id"`
	Date       string  `json:"date"`
	UserID     string  `json:"user_id"`
	Purpose    string  `json:"purpose"`
	Groups     *string `json:"groups"`
}

// Normalize trims the free-text fields.
func (r *Reservation) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.UserID = strings.TrimSpace(r.UserID)
	r.Purpose = strings.TrimSpace(r.Purpose)
	if r.Groups != nil {
		g := strings.TrimSpace(*r.Groups)
		if g == "" {
			r.Groups = nil
		} else {
			r.Groups = &g
		}
	}
}

func (r *Reservation) Validate() error {
	if r.RoomID <= 0 {
		return errors.New("room ID is required")
	}
	if r.TimeSlotID <= 0 {
		return errors.New("time slot ID is required")
	}
	if strings.TrimSpace(r.Date) == "" {
		return errors.New("date is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user ID is required")
	}
	if strings.TrimSpace(r.Purpose) == "" {
		return errors.New("purpose is required")
	}
	return nil
}
