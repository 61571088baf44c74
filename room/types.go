package room

import (
	"errors"
	"strings"
)

type Room struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Building string `json:"building"`
}

// Normalize trims the free-text fields so stored values round-trip cleanly.
func (r *Room) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Building = strings.TrimSpace(r.Building)
}

func (r *Room) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.Capacity <= 0 {
		return errors.New("capacity must be a positive number")
	}
	if strings.TrimSpace(r.Building) == "" {
		return errors.New("building is required")
	}
	return nil
}
