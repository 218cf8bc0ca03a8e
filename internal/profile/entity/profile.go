package entity

import "time"

// Profile is the animal profile owned by a single account.
type Profile struct {
	ID            string    `json:"id"`
	OwnerIdentity string    `json:"ownerIdentity"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
	BirthDate     int64     `json:"birthDate"`
	Gender        string    `json:"gender"`
	Weight        *float64  `json:"weight,omitempty"`
	Breed         string    `json:"breed"`
}
