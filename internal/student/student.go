// Package student implements the student directory.
package student

import "time"

// Student is one roster entry. Optional fields are empty when unset
// (NameDayMonth uses 0).
type Student struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	ChristianName string    `json:"christianName,omitempty"`
	NameDayMonth  int       `json:"nameDayMonth,omitempty"`
	Grade         string    `json:"grade"`
	Gender        string    `json:"gender"`
	MotherName    string    `json:"motherName,omitempty"`
	MotherContact string    `json:"motherContact,omitempty"`
	FatherName    string    `json:"fatherName,omitempty"`
	FatherContact string    `json:"fatherContact,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	FullName      *string `json:"fullName"`
	ChristianName *string `json:"christianName"`
	NameDayMonth  *int    `json:"nameDayMonth"`
	Grade         *string `json:"grade"`
	Gender        *string `json:"gender"`
	MotherName    *string `json:"motherName"`
	MotherContact *string `json:"motherContact"`
	FatherName    *string `json:"fatherName"`
	FatherContact *string `json:"fatherContact"`
}
