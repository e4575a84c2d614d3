package render

import (
	"strconv"
	"strings"

	"ssh_admin/internal/domain"
)

// Bucket is a canonical rate duration.
type Bucket string

const (
	ThreeHours      Bucket = "threeHours"
	SixHours        Bucket = "sixHours"
	NineHours       Bucket = "nineHours"
	TwelveHours     Bucket = "twelveHours"
	TwentyFourHours Bucket = "twentyFourHours"
	OneDay          Bucket = "oneDay"
	FiveDays        Bucket = "fiveDays"
	TenDays         Bucket = "tenDays"
	OneMonth        Bucket = "oneMonth"
)

var (
	HourlyBuckets   = []Bucket{ThreeHours, SixHours, NineHours, TwelveHours, TwentyFourHours}
	ExtendedBuckets = []Bucket{OneDay, FiveDays, TenDays, OneMonth}
)

var bucketLabels = map[Bucket]string{
	ThreeHours:      "3 Hours",
	SixHours:        "6 Hours",
	NineHours:       "9 Hours",
	TwelveHours:     "12 Hours",
	TwentyFourHours: "24 Hours",
	OneDay:          "1 Day",
	FiveDays:        "5 Days",
	TenDays:         "10 Days",
	OneMonth:        "1 Month",
}

func (b Bucket) Label() string { return bucketLabels[b] }

// bucketSpan is a bucket's length in its group's unit (hours or days), used
// to order bucket rows among legacy counts.
var bucketSpan = map[Bucket]int{
	ThreeHours: 3, SixHours: 6, NineHours: 9, TwelveHours: 12, TwentyFourHours: 24,
	OneDay: 1, FiveDays: 5, TenDays: 10, OneMonth: 30,
}

// legacy hourlyRates / dailyRates were keyed by plain counts
var (
	legacyHours = map[string]Bucket{"3": ThreeHours, "6": SixHours, "9": NineHours, "12": TwelveHours, "24": TwentyFourHours}
	legacyDays  = map[string]Bucket{"1": OneDay, "5": FiveDays, "10": TenDays, "30": OneMonth}
)

// RateCard is the single shape every renderer works from. Prices only holds
// buckets that are actually offered (strictly positive). Legacy counts with
// no matching bucket are kept in ExtraHours and ExtraDays.
type RateCard struct {
	Prices     map[Bucket]float64
	ExtraHours map[int]float64
	ExtraDays  map[int]float64
	Standard   float64 // legacy flat price, 0 when absent
}

// HasPricing reports whether anything at all is offered.
func (c RateCard) HasPricing() bool {
	return len(c.Prices) > 0 || len(c.ExtraHours) > 0 || len(c.ExtraDays) > 0 || c.Standard > 0
}

// NormalizeRates folds the three historical rate shapes into a RateCard.
// The bucketed rates map wins over the legacy maps for the same bucket.
// Zero, negative and non-numeric prices are dropped.
func NormalizeRates(rt domain.RoomType) RateCard {
	card := RateCard{Prices: map[Bucket]float64{}, ExtraHours: map[int]float64{}, ExtraDays: map[int]float64{}}
	put := func(b Bucket, n domain.Number) {
		if _, seen := card.Prices[b]; b == "" || seen || !n.Positive() {
			return
		}
		card.Prices[b] = n.Value
	}
	putLegacy := func(key string, n domain.Number, table map[string]Bucket, extra map[int]float64) {
		if b := legacyBucket(key, table); b != "" {
			put(b, n)
			return
		}
		count, err := strconv.Atoi(strings.TrimSpace(key))
		if _, seen := extra[count]; err != nil || count <= 0 || seen || !n.Positive() {
			return
		}
		extra[count] = n.Value
	}

	for k, v := range rt.Rates {
		if b := Bucket(strings.TrimSpace(k)); b.Label() != "" {
			put(b, v)
		}
	}
	for k, v := range rt.HourlyRates {
		putLegacy(k, v, legacyHours, card.ExtraHours)
	}
	for k, v := range rt.DailyRates {
		putLegacy(k, v, legacyDays, card.ExtraDays)
	}

	if rt.Price.Positive() {
		card.Standard = rt.Price.Value
	}
	return card
}

func legacyBucket(key string, table map[string]Bucket) Bucket {
	key = strings.TrimSpace(key)
	if b, ok := table[key]; ok {
		return b
	}
	if b := Bucket(key); b.Label() != "" {
		return b
	}
	return ""
}
