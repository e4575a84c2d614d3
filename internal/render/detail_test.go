package render_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssh_admin/internal/domain"
	"ssh_admin/internal/render"
)

const rejectedJSON = `{
	"id": 9, "status": "rejected", "hotelName": "Lake Inn", "propertyType": "Hotel",
	"city": "Pune", "address": "12 MG Road", "totalRooms": 20, "sshRooms": "5",
	"checkInTime": "", "amenities": {"wifi": true},
	"partner": {"propertyName": "Lake Inn", "ownerName": "Ravi", "email": "ravi@example.com", "mobile": "99999"},
	"contactPhone": "", "ownerContact": "88888",
	"createdAt": "2025-10-26T14:30:00Z", "rejectionReason": "blurry photos"
}`

func TestNewDetail(t *testing.T) {
	var h domain.HotelRegistration
	require.NoError(t, json.Unmarshal([]byte(rejectedJSON), &h))

	d := render.NewDetail(h)
	assert.Equal(t, domain.HotelID("9"), d.ID)
	assert.Equal(t, "Lake Inn", d.Title)
	assert.Equal(t, "wifi", d.Amenities)
	assert.Nil(t, d.Pricing, "no room types means no pricing section")
	assert.Equal(t, render.NoImages, d.Images.Placeholder)

	rows := map[string]string{}
	for _, r := range d.Hotel.Rows {
		rows[r.Label] = r.Value
	}
	assert.Equal(t, "20", rows["Total Rooms"])
	assert.Equal(t, "5", rows["SSH Rooms"])
	assert.Equal(t, render.NA, rows["Check-in Time"])
	assert.NotContains(t, rows, "Description")

	for _, r := range d.Partner.Rows {
		assert.NotEqual(t, "Address", r.Label, "empty partner address is omitted")
	}
	assert.Equal(t, render.Row{Label: "Phone", Value: "88888"}, d.Contact.Rows[1])
	assert.Equal(t, []render.Row{
		{Label: "Current Status", Value: "REJECTED"},
		{Label: "Submitted", Value: "26 Oct 2025, 02:30 PM"},
		{Label: "Rejection Reason", Value: "blurry photos"},
	}, d.Status.Rows)

	card := render.NewCard(h)
	assert.Equal(t, "Ravi", card.Owner)
	assert.Equal(t, "blurry photos", card.RejectionReason)
	assert.Empty(t, card.Approved)
}
