package booking

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ashwinyue/travel-planner/internal/model"
)

// 可识别的 ISO-4217 货币代码，其他三字母单词不视为货币
const currencyCodes = "USD|EUR|GBP|JPY|CNY|AUD|CAD|CHF|HKD|SGD|INR|KRW|THB|MXN|BRL|NZD|SEK|NOK|DKK|AED"

// 摘要字段行，如 "- **Booking ID:** BK1234ABCD"
var (
	summaryLineRe = regexp.MustCompile(`(?i)^(booking id|confirmation number|confirmation|check[- ]?in date|check[- ]?in|check[- ]?out date|check[- ]?out|number of guests|guests|room type|total amount|total price|hotel name|hotel)\s*:\s*(.+)$`)
	bulletRe      = regexp.MustCompile(`^(?:[-*•>]|\d+[.)])\s+`)
	amountRe      = regexp.MustCompile(`(?i)(?:\b(` + currencyCodes + `)\b|([$€£]))?\s*([\d,]+(?:\.\d+)?)(?:\s*\b(` + currencyCodes + `)\b)?`)
	intRe         = regexp.MustCompile(`\d+`)
)

// ExtractSummary 从助手的自然语言回复中尽力解析预订摘要
// 没有 Booking ID 和确认号时视为不是预订确认
func ExtractSummary(text, userID string, now time.Time) (*model.Booking, bool) {
	fields := make(map[string]string)
	for _, raw := range strings.Split(text, "\n") {
		line := strings.NewReplacer("**", "", "__", "", "`", "").Replace(strings.TrimSpace(raw))
		line = strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
		m := summaryLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := canonicalField(m[1])
		if _, exists := fields[key]; exists {
			continue
		}
		fields[key] = strings.TrimSpace(m[2])
	}

	bookingID := firstToken(fields["booking_id"])
	confirmation := firstToken(fields["confirmation"])
	if bookingID == "" && confirmation == "" {
		return nil, false
	}
	if bookingID == "" {
		bookingID = confirmation
	}

	b := &model.Booking{
		BookingID:          bookingID,
		HotelName:          fields["hotel"],
		RoomType:           fields["room_type"],
		UserID:             userID,
		CheckInDate:        normalizeDate(fields["check_in"]),
		CheckOutDate:       normalizeDate(fields["check_out"]),
		Pricing:            []model.PricingLine{},
		BookingStatus:      model.BookingStatusConfirmed,
		BookingDate:        now,
		ConfirmationNumber: confirmation,
	}
	if g := intRe.FindString(fields["guests"]); g != "" {
		b.NumberOfGuests, _ = strconv.Atoi(g)
	}
	if total, currency, ok := parseAmount(fields["total"]); ok {
		nights := Nights(b.CheckInDate, b.CheckOutDate)
		line := model.PricingLine{TotalAmount: total, Nights: nights, Currency: currency}
		if nights > 0 {
			line.RoomRate = round2(total / float64(nights))
		}
		b.Pricing = append(b.Pricing, line)
	}
	return b, true
}

func canonicalField(label string) string {
	l := strings.ToLower(label)
	switch {
	case strings.HasPrefix(l, "booking"):
		return "booking_id"
	case strings.HasPrefix(l, "confirmation"):
		return "confirmation"
	case strings.HasPrefix(l, "check") && strings.Contains(l, "in"):
		return "check_in"
	case strings.HasPrefix(l, "check"):
		return "check_out"
	case strings.Contains(l, "guests"):
		return "guests"
	case strings.HasPrefix(l, "room"):
		return "room_type"
	case strings.HasPrefix(l, "total"):
		return "total"
	default:
		return "hotel"
	}
}

func firstToken(v string) string {
	f := strings.Fields(v)
	if len(f) == 0 {
		return ""
	}
	return strings.Trim(f[0], ".,;")
}

// normalizeDate 尽量转为 YYYY-MM-DD，无法识别时原样返回
func normalizeDate(v string) string {
	v = strings.TrimSpace(v)
	for _, layout := range []string{dateLayout, "January 2, 2006", "Jan 2, 2006", "2 January 2006", "01/02/2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(dateLayout)
		}
	}
	if len(v) >= 10 {
		if t, err := time.Parse(dateLayout, v[:10]); err == nil {
			return t.Format(dateLayout)
		}
	}
	return v
}

func parseAmount(v string) (float64, string, bool) {
	m := amountRe.FindStringSubmatch(v)
	if m == nil || m[3] == "" {
		return 0, "", false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[3], ",", ""), 64)
	if err != nil || amount <= 0 {
		return 0, "", false
	}
	currency := defaultCurrency
	for _, c := range []string{m[2], m[1], m[4]} {
		switch c {
		case "":
		case "$":
			currency = "USD"
		case "€":
			currency = "EUR"
		case "£":
			currency = "GBP"
		default:
			currency = strings.ToUpper(c)
		}
	}
	return round2(amount), currency, true
}
