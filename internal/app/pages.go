package app

import (
	"fmt"

	"ssh_admin/internal/domain"
)

// Fixture datasets for the read-only sidebar pages.

type Metrics struct {
	Bookings int `json:"bookings"`
	Revenue  int `json:"revenue"`
	Hotels   int `json:"hotels"`
	Users    int `json:"users"`
}

type Trend struct {
	Period   string `json:"period"`
	Bookings int    `json:"bookings"`
	Revenue  int    `json:"revenue"`
}

type LocationShare struct {
	Location   string `json:"location"`
	Revenue    int    `json:"revenue"`
	Percentage int    `json:"percentage"`
}

type Analytics struct {
	Timeframe string          `json:"timeframe"`
	Metrics   Metrics         `json:"metrics"`
	Trends    []Trend         `json:"trends"`
	Locations []LocationShare `json:"locations"`
}

var analytics = map[string]Analytics{
	"daily": {
		Timeframe: "daily",
		Metrics:   Metrics{Bookings: 58, Revenue: 29000, Hotels: 24, Users: 1320},
		Trends: []Trend{
			{"00:00", 2, 1000}, {"04:00", 1, 500}, {"08:00", 8, 4000},
			{"12:00", 15, 7500}, {"16:00", 20, 10000}, {"20:00", 12, 6000},
		},
		Locations: []LocationShare{{"Mumbai", 18850, 65}, {"Pune", 7250, 25}, {"Thane", 2900, 10}},
	},
	"weekly": {
		Timeframe: "weekly",
		Metrics:   Metrics{Bookings: 385, Revenue: 192500, Hotels: 24, Users: 1320},
		Trends: []Trend{
			{"Mon", 45, 22500}, {"Tue", 52, 26000}, {"Wed", 48, 24000}, {"Thu", 65, 32500},
			{"Fri", 80, 40000}, {"Sat", 75, 37500}, {"Sun", 60, 30000},
		},
		Locations: []LocationShare{{"Mumbai", 125125, 65}, {"Pune", 48125, 25}, {"Thane", 19250, 10}},
	},
	"monthly": {
		Timeframe: "monthly",
		Metrics:   Metrics{Bookings: 1650, Revenue: 825000, Hotels: 24, Users: 1320},
		Trends: []Trend{
			{"Week 1", 380, 190000}, {"Week 2", 410, 205000}, {"Week 3", 430, 215000}, {"Week 4", 430, 215000},
		},
		Locations: []LocationShare{{"Mumbai", 536250, 65}, {"Pune", 206250, 25}, {"Thane", 82500, 10}},
	},
}

// AnalyticsFor returns the dataset for timeframe (daily when empty).
func AnalyticsFor(timeframe string) (Analytics, error) {
	if timeframe == "" {
		timeframe = "daily"
	}
	a, ok := analytics[timeframe]
	if !ok {
		return Analytics{}, &domain.ValidationError{Field: "timeframe", Reason: fmt.Sprintf("unknown timeframe %q", timeframe)}
	}
	return a, nil
}

type HotelCommission struct {
	Hotel      string `json:"hotel"`
	Location   string `json:"location"`
	Bookings   int    `json:"bookings"`
	Revenue    int    `json:"revenue"`
	Commission int    `json:"commission"`
	Rate       int    `json:"rate"`
}

type LocationCommission struct {
	Location   string `json:"location"`
	Hotels     int    `json:"hotels"`
	Bookings   int    `json:"bookings"`
	Revenue    int    `json:"revenue"`
	Commission int    `json:"commission"`
}

type Commission struct {
	TotalCommission string               `json:"totalCommission"`
	AverageRate     string               `json:"averageRate"`
	TotalBookings   int                  `json:"totalBookings"`
	ByHotel         []HotelCommission    `json:"byHotel"`
	ByLocation      []LocationCommission `json:"byLocation"`
}

var commission = Commission{
	TotalCommission: "₹23,875",
	AverageRate:     "12.1%",
	TotalBookings:   385,
	ByHotel: []HotelCommission{
		{"Hotel Sunshine", "Mumbai", 45, 22500, 2925, 13},
		{"Grand Stay Inn", "Pune", 32, 16000, 1920, 12},
		{"Hotel Paradise", "Mumbai", 28, 14000, 1680, 12},
		{"Budget Comfort", "Thane", 21, 10500, 1050, 10},
	},
	ByLocation: []LocationCommission{
		{"Mumbai", 12, 245, 122500, 15925},
		{"Pune", 8, 95, 47500, 5700},
		{"Thane", 4, 45, 22500, 2250},
	},
}

type Complaint struct {
	ID       int    `json:"id"`
	User     string `json:"user"`
	Email    string `json:"email"`
	Hotel    string `json:"hotel"`
	Issue    string `json:"issue"`
	Status   string `json:"status"`
	Date     string `json:"date"`
	Priority string `json:"priority"`
}

type Refund struct {
	ID     int    `json:"id"`
	User   string `json:"user"`
	Amount int    `json:"amount"`
	Reason string `json:"reason"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

type Support struct {
	Complaints []Complaint `json:"complaints"`
	Refunds    []Refund    `json:"refunds"`
}

var support = Support{
	Complaints: []Complaint{
		{1, "Amit Patel", "amit@email.com", "Hotel Sunshine", "Room was not clean", "Open", "2025-10-26", "High"},
		{2, "Sneha Reddy", "sneha@email.com", "Grand Stay Inn", "AC not working", "In Progress", "2025-10-25", "Medium"},
		{3, "Rahul Kumar", "rahul@email.com", "Hotel Paradise", "Late check-in", "Open", "2025-10-27", "Low"},
	},
	Refunds: []Refund{
		{1, "Priya Sharma", 1500, "Booking cancelled", "Pending", "2025-10-26"},
		{2, "Vijay Singh", 2000, "Service issue", "Approved", "2025-10-24"},
	},
}

type Coupon struct {
	ID       int    `json:"id"`
	Code     string `json:"code"`
	Discount string `json:"discount"`
	Type     string `json:"type"`
	Uses     int    `json:"uses"`
	MaxUses  int    `json:"maxUses"`
	Status   string `json:"status"`
	Expiry   string `json:"expiry"`
}

type Referral struct {
	ID     int    `json:"id"`
	Code   string `json:"code"`
	User   string `json:"user"`
	Uses   int    `json:"uses"`
	Earned int    `json:"earned"`
	Status string `json:"status"`
}

type Campaign struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Sent   int    `json:"sent"`
	Opened int    `json:"opened"`
	Clicks int    `json:"clicks"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

type Marketing struct {
	Coupons   []Coupon   `json:"coupons"`
	Referrals []Referral `json:"referrals"`
	Campaigns []Campaign `json:"campaigns"`
}

var marketing = Marketing{
	Coupons: []Coupon{
		{1, "WELCOME50", "50%", "Percentage", 234, 500, "Active", "2025-12-31"},
		{2, "FIRST100", "₹100", "Fixed", 156, 200, "Active", "2025-11-30"},
		{3, "SUMMER25", "25%", "Percentage", 89, 100, "Active", "2025-10-31"},
	},
	Referrals: []Referral{
		{1, "REF-AMIT123", "Amit Patel", 12, 600, "Active"},
		{2, "REF-SNEHA456", "Sneha Reddy", 8, 400, "Active"},
		{3, "REF-RAHUL789", "Rahul Kumar", 15, 750, "Active"},
	},
	Campaigns: []Campaign{
		{1, "Diwali Special", "Email", 1200, 480, 120, "Completed", "2025-10-20"},
		{2, "Weekend Discount", "SMS", 800, 640, 160, "Active", "2025-10-25"},
		{3, "New User Welcome", "Push", 450, 315, 90, "Active", "2025-10-26"},
	},
}

// StaticPage returns the fixture for a read-only page. timeframe only
// applies to analytics.
func StaticPage(p Page, timeframe string) (any, error) {
	switch p {
	case PageAnalytics:
		return AnalyticsFor(timeframe)
	case PageCommission:
		return commission, nil
	case PageUserSupport:
		return support, nil
	case PageMarketing:
		return marketing, nil
	}
	return nil, fmt.Errorf("page %q has no static dataset: %w", p, domain.ErrNotFound)
}
