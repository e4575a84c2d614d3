package domain

// Status is the moderation state of a registration.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Statuses lists every moderation state in tab order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// HotelRegistration is a partner's submitted hotel application.
type HotelRegistration struct {
	ID                 HotelID    `json:"id"`
	Status             Status     `json:"status"`
	HotelName          string     `json:"hotelName"`
	PropertyType       string     `json:"propertyType"`
	City               string     `json:"city"`
	Address            string     `json:"address"`
	TotalRooms         Number     `json:"totalRooms"`
	SSHRooms           Number     `json:"sshRooms"`
	CheckInTime        string     `json:"checkInTime"`
	CheckOutTime       string     `json:"checkOutTime"`
	Description        string     `json:"description"`
	CancellationPolicy string     `json:"cancellationPolicy"`
	RefundPolicy       string     `json:"refundPolicy"`
	Amenities          Amenities  `json:"amenities"`
	CustomAmenities    StringList `json:"customAmenities"`
	OwnerName          string     `json:"ownerName"`
	ContactPhone       string     `json:"contactPhone"`
	OwnerContact       string     `json:"ownerContact"`
	ContactEmail       string     `json:"contactEmail"`
	ContactAddress     string     `json:"contactAddress"`
	Partner            Partner    `json:"partner"`
	Images             Images     `json:"images"`
	RoomTypes          RoomTypes  `json:"roomTypes"`
	CreatedAt          Timestamp  `json:"createdAt"`
	ApprovalDate       *Timestamp `json:"approvalDate,omitempty"`
	RejectionReason    string     `json:"rejectionReason,omitempty"`
}

// Consistent reports whether the lifecycle metadata agrees with Status.
func (h HotelRegistration) Consistent() bool {
	switch h.Status {
	case StatusApproved:
		return h.ApprovalDate != nil && h.RejectionReason == ""
	case StatusRejected:
		return h.RejectionReason != "" && h.ApprovalDate == nil
	case StatusPending:
		return h.RejectionReason == "" && h.ApprovalDate == nil
	}
	return false
}

type Partner struct {
	PropertyName string `json:"propertyName"`
	OwnerName    string `json:"ownerName"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	City         string `json:"city"`
	State        string `json:"state"`
	Address      string `json:"address"`
}

// Images maps a photo category (exterior, lobby, rooms, washroom, other) to URLs.
type Images map[string]ImageList

// RoomType carries the room data exactly as the backend sent it. Rates may come
// as a flat Price, as legacy HourlyRates/DailyRates keyed by hour or day count,
// or as Rates keyed by bucket name.
type RoomType struct {
	Name             string     `json:"name"`
	Capacity         Number     `json:"capacity"`
	Count            Number     `json:"count"`
	ExtraGuestCharge Number     `json:"extraGuestCharge"`
	RoomAmenities    StringList `json:"roomAmenities,omitempty"`
	Price            Number     `json:"price"`
	HourlyRates      RateMap    `json:"hourlyRates,omitempty"`
	DailyRates       RateMap    `json:"dailyRates,omitempty"`
	Rates            RateMap    `json:"rates,omitempty"`
}

// StatusUpdate is the body of a moderation decision.
type StatusUpdate struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Message is a one-off email to a partner. It is never stored.
type Message struct {
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	AdminEmail string `json:"adminEmail"`
}
