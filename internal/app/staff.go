package app

import (
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"ssh_admin/internal/domain"
)

// Messages shown by the overview's "Add New Staff" form.
const (
	StaffAdded      = "Staff member added successfully!"
	StaffIncomplete = "Please fill all fields"
)

var (
	StaffRoles     = []string{"Manager", "Receptionist", "Housekeeping", "Maintenance"}
	StaffLocations = []string{"Hotel Sunshine", "Hotel Paradise", "Hotel Comfort", "Hotel Elite"}
)

// StaffForm is the "Add New Staff" form. There is no staff backend, so a
// valid submission is acknowledged and logged but not stored.
type StaffForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Location string `json:"location"`
}

// StaffFormView is an empty form plus the choices for its two selects.
type StaffFormView struct {
	Form      StaffForm `json:"form"`
	Roles     []string  `json:"roles"`
	Locations []string  `json:"locations"`
}

type StaffAddedResult struct {
	Message string    `json:"message"`
	Staff   StaffForm `json:"staff"`
}

func NewStaffForm() StaffForm {
	return StaffForm{Role: StaffRoles[0], Location: StaffLocations[0]}
}

// normalize trims the text fields and fills an empty select with its default.
func (f StaffForm) normalize() StaffForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Role = strings.TrimSpace(f.Role)
	f.Location = strings.TrimSpace(f.Location)
	d := NewStaffForm()
	if f.Role == "" {
		f.Role = d.Role
	}
	if f.Location == "" {
		f.Location = d.Location
	}
	return f
}

// Validate requires a name and an email; role and location must be one of
// the offered choices.
func (f StaffForm) Validate() error {
	switch {
	case f.Name == "" || f.Email == "":
		return &domain.ValidationError{Field: "staff", Reason: StaffIncomplete}
	case !slices.Contains(StaffRoles, f.Role):
		return &domain.ValidationError{Field: "role", Reason: "unknown role " + f.Role}
	case !slices.Contains(StaffLocations, f.Location):
		return &domain.ValidationError{Field: "location", Reason: "unknown hotel location " + f.Location}
	}
	return nil
}

// OpenStaffForm opens the overview's add-staff form.
func (s *Shell) OpenStaffForm() StaffFormView {
	return StaffFormView{
		Form:      NewStaffForm(),
		Roles:     slices.Clone(StaffRoles),
		Locations: slices.Clone(StaffLocations),
	}
}

// AddStaff validates and acknowledges a new staff member.
func (s *Shell) AddStaff(form StaffForm) (StaffAddedResult, error) {
	form = form.normalize()
	if err := form.Validate(); err != nil {
		return StaffAddedResult{}, err
	}
	log.Info().
		Str("role", form.Role).
		Str("location", form.Location).
		Msg("staff member added")
	return StaffAddedResult{Message: StaffAdded, Staff: form}, nil
}
