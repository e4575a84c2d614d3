package render

import (
	"cmp"
	"fmt"
	"slices"

	"ssh_admin/internal/domain"
)

const (
	NoRoomTypes = "No room types specified"
	NoPricing   = "No pricing information provided for this room type"

	GroupHourly   = "Hourly"
	GroupExtended = "Extended"
	GroupStandard = "Standard"
)

type PriceRow struct {
	Group    string  `json:"group"`
	Bucket   Bucket  `json:"bucket,omitempty"`
	Duration string  `json:"duration"`
	Amount   float64 `json:"amount"`
	Price    string  `json:"price"`
}

type RoomPricingView struct {
	Name             string     `json:"name"`
	Capacity         string     `json:"capacity,omitempty"`
	Available        string     `json:"available,omitempty"`
	ExtraGuestCharge string     `json:"extraGuestCharge,omitempty"`
	Amenities        []string   `json:"amenities,omitempty"`
	Rows             []PriceRow `json:"rows,omitempty"`
	Placeholder      string     `json:"placeholder,omitempty"`
}

type PricingView struct {
	Rooms       []RoomPricingView `json:"rooms,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
}

func RoomPricing(rooms domain.RoomTypes) PricingView {
	if len(rooms) == 0 {
		return PricingView{Placeholder: NoRoomTypes}
	}
	out := PricingView{Rooms: make([]RoomPricingView, 0, len(rooms))}
	for i, rt := range rooms {
		out.Rooms = append(out.Rooms, roomPricing(i, rt))
	}
	return out
}

func roomPricing(idx int, rt domain.RoomType) RoomPricingView {
	v := RoomPricingView{Name: rt.Name, Amenities: rt.RoomAmenities}
	if v.Name == "" {
		v.Name = fmt.Sprintf("Room Type %d", idx+1)
	}
	if n := rt.Capacity.Int(); n > 0 {
		v.Capacity = plural(n, "Person", "People")
	}
	if n := rt.Count.Int(); n > 0 {
		v.Available = plural(n, "Room", "Rooms")
	}
	if rt.ExtraGuestCharge.Positive() {
		v.ExtraGuestCharge = FormatINR(rt.ExtraGuestCharge.Value) + " per guest"
	}

	card := NormalizeRates(rt)
	if !card.HasPricing() {
		v.Placeholder = NoPricing
		return v
	}
	v.Rows = append(v.Rows, rows(card, GroupHourly, HourlyBuckets, card.ExtraHours, "Hour", "Hours")...)
	v.Rows = append(v.Rows, rows(card, GroupExtended, ExtendedBuckets, card.ExtraDays, "Day", "Days")...)
	if len(v.Rows) == 0 {
		v.Rows = []PriceRow{{
			Group:    GroupStandard,
			Duration: "Per Stay",
			Amount:   card.Standard,
			Price:    FormatINR(card.Standard),
		}}
	}
	return v
}

// rows lists a group's bucket prices and legacy extras by ascending length.
func rows(card RateCard, group string, buckets []Bucket, extra map[int]float64, one, many string) []PriceRow {
	type spanRow struct {
		span int
		row  PriceRow
	}
	var all []spanRow
	for _, b := range buckets {
		p, ok := card.Prices[b]
		if !ok {
			continue
		}
		all = append(all, spanRow{bucketSpan[b], PriceRow{Group: group, Bucket: b, Duration: b.Label(), Amount: p, Price: FormatINR(p)}})
	}
	for n, p := range extra {
		all = append(all, spanRow{n, PriceRow{Group: group, Duration: plural(n, one, many), Amount: p, Price: FormatINR(p)}})
	}
	slices.SortStableFunc(all, func(a, b spanRow) int { return cmp.Compare(a.span, b.span) })

	var out []PriceRow
	for _, r := range all {
		out = append(out, r.row)
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
