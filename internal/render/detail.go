package render

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"ssh_admin/internal/domain"
)

const NA = "N/A"

// FormatDate renders t as "26 Oct 2025, 02:30 PM", or N/A for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return NA
	}
	return t.Format("02 Jan 2006, 03:04 PM")
}

type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is the summary shown in a tab list.
type Card struct {
	ID              domain.HotelID `json:"id"`
	Status          domain.Status  `json:"status"`
	HotelName       string         `json:"hotelName"`
	PropertyType    string         `json:"propertyType"`
	City            string         `json:"city"`
	TotalRooms      string         `json:"totalRooms"`
	SSHRooms        string         `json:"sshRooms"`
	Owner           string         `json:"owner"`
	Mobile          string         `json:"mobile"`
	Email           string         `json:"email"`
	Submitted       string         `json:"submitted"`
	Approved        string         `json:"approved,omitempty"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
}

func NewCard(h domain.HotelRegistration) Card {
	c := Card{
		ID:              h.ID,
		Status:          h.Status,
		HotelName:       h.HotelName,
		PropertyType:    h.PropertyType,
		City:            h.City,
		TotalRooms:      number(h.TotalRooms),
		SSHRooms:        number(h.SSHRooms),
		Owner:           h.Partner.OwnerName,
		Mobile:          h.Partner.Mobile,
		Email:           h.Partner.Email,
		Submitted:       FormatDate(h.CreatedAt.Time),
		RejectionReason: h.RejectionReason,
	}
	if h.ApprovalDate != nil {
		c.Approved = FormatDate(h.ApprovalDate.Time)
	}
	return c
}

type Section struct {
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

// Detail is the full review view of one registration.
type Detail struct {
	ID              domain.HotelID `json:"id"`
	Title           string         `json:"title"`
	Partner         Section        `json:"partner"`
	Hotel           Section        `json:"hotel"`
	Contact         Section        `json:"contact"`
	Amenities       string         `json:"amenities"`
	CustomAmenities string         `json:"customAmenities,omitempty"`
	Policies        Section        `json:"policies"`
	Images          ImageView      `json:"images"`
	Pricing         *PricingView   `json:"pricing,omitempty"`
	Status          Section        `json:"status"`
}

func NewDetail(h domain.HotelRegistration) Detail {
	d := Detail{
		ID:    h.ID,
		Title: h.HotelName,
		Partner: Section{Title: "Partner Information", Rows: compact([]Row{
			{"Property Name", h.Partner.PropertyName},
			{"Owner Name", h.Partner.OwnerName},
			{"Email", h.Partner.Email},
			{"Mobile", h.Partner.Mobile},
			{"City", orNA(h.Partner.City)},
			{"State", orNA(h.Partner.State)},
			{"Address", h.Partner.Address},
		}, "Address")},
		Hotel: Section{Title: "Hotel Information", Rows: compact([]Row{
			{"Hotel Name", h.HotelName},
			{"Property Type", h.PropertyType},
			{"City", h.City},
			{"Address", h.Address},
			{"Total Rooms", number(h.TotalRooms)},
			{"SSH Rooms", number(h.SSHRooms)},
			{"Check-in Time", orNA(h.CheckInTime)},
			{"Check-out Time", orNA(h.CheckOutTime)},
			{"Description", h.Description},
		}, "Description")},
		Contact: Section{Title: "Contact Details", Rows: compact([]Row{
			{"Contact Person", h.OwnerName},
			{"Phone", firstNonEmpty(h.ContactPhone, h.OwnerContact)},
			{"Email", h.ContactEmail},
			{"Address", h.ContactAddress},
		}, "Address")},
		Amenities:       Amenities(h.Amenities),
		CustomAmenities: CustomAmenities(h.CustomAmenities),
		Policies: Section{Title: "Policies", Rows: []Row{
			{"Cancellation Policy", h.CancellationPolicy},
			{"Refund Policy", h.RefundPolicy},
		}},
		Images: Images(h.Images),
	}
	if len(h.RoomTypes) > 0 {
		p := RoomPricing(h.RoomTypes)
		d.Pricing = &p
	}

	status := []Row{
		{"Current Status", strings.ToUpper(string(h.Status))},
		{"Submitted", FormatDate(h.CreatedAt.Time)},
	}
	if h.ApprovalDate != nil {
		status = append(status, Row{"Approved On", FormatDate(h.ApprovalDate.Time)})
	}
	if h.RejectionReason != "" {
		status = append(status, Row{"Rejection Reason", h.RejectionReason})
	}
	d.Status = Section{Title: "Status Information", Rows: status}
	return d
}

// compact drops the named optional rows when their value is empty.
func compact(rows []Row, optional ...string) []Row {
	out := rows[:0]
	for _, r := range rows {
		if r.Value == "" && slices.Contains(optional, r.Label) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NA
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func number(n domain.Number) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
