// Package settlement computes commission and payouts for partner sales.
package settlement

import (
	"errors"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/impoot/impoot/internal/models"
)

// MaxPrice is the largest price in won an item may carry.
const MaxPrice int64 = 10_000_000_000

// ErrPriceTooLarge is returned for prices above MaxPrice.
var ErrPriceTooLarge = errors.New("price is too large")

// ParsePrice extracts the amount in won from a display price such as
// "30,000원". Strings without digits are free. Prices above MaxPrice
// return MaxPrice and ErrPriceTooLarge.
func ParsePrice(price string) (int64, error) {
	var n int64
	for _, r := range price {
		if r < '0' || r > '9' {
			continue
		}
		n = n*10 + int64(r-'0')
		if n > MaxPrice {
			return MaxPrice, ErrPriceTooLarge
		}
	}
	return n, nil
}

// PartnerSales is the sales count a host sees for an item. Networking
// seats and crew reports are sold through the platform; other categories
// have no recorded sales.
func PartnerSales(item *models.Item) int {
	switch item.CategoryType {
	case models.CategoryNetworking:
		return item.Details.CurrentParticipants
	case models.CategoryCrew:
		return item.Details.PurchaseCount
	}
	return 0
}

// RecordedSales is the sales count the admin overview shows: participants,
// or report purchases when nobody joined.
func RecordedSales(item *models.Item) int {
	if item.Details.CurrentParticipants > 0 {
		return item.Details.CurrentParticipants
	}
	return item.Details.PurchaseCount
}

// Fee returns the platform commission on revenue, rounded down.
func Fee(revenue int64, rate int) int64 {
	r := int64(rate)
	return revenue/100*r + revenue%100*r/100
}

func grossRevenue(price int64, sales int) int64 {
	if sales <= 0 {
		return 0
	}
	if price > math.MaxInt64/int64(sales) {
		return math.MaxInt64
	}
	return price * int64(sales)
}

// Line is the settlement of a single item.
type Line struct {
	ItemID           int64           `json:"item_id"`
	Title            string          `json:"title"`
	Category         models.Category `json:"category_type"`
	Status           string          `json:"status"`
	SettlementStatus string          `json:"settlement_status"`
	Price            int64           `json:"price"`
	Sales            int             `json:"sales"`
	Revenue          int64           `json:"revenue"`
	Fee              int64           `json:"fee"`
	Payout           int64           `json:"payout"`
}

// Outstanding reports whether the item has ended and is not settled yet.
func (l Line) Outstanding() bool {
	return l.Status == models.ItemEnded && l.SettlementStatus == models.SettlementPending
}

// NewLine computes the settlement of one item with the given sales count.
func NewLine(item *models.Item, rate, sales int) Line {
	price, _ := ParsePrice(item.Price)
	revenue := grossRevenue(price, sales)
	fee := Fee(revenue, rate)
	return Line{
		ItemID:           item.ID,
		Title:            item.Title,
		Category:         item.CategoryType,
		Status:           item.Status,
		SettlementStatus: item.SettlementStatus,
		Price:            price,
		Sales:            sales,
		Revenue:          revenue,
		Fee:              fee,
		Payout:           revenue - fee,
	}
}

// Summary totals a partner's settlement.
type Summary struct {
	Rate            int    `json:"commission_rate"`
	TotalSales      int64  `json:"total_sales"`
	TotalFees       int64  `json:"total_fees"`
	NetProfit       int64  `json:"net_profit"`
	FeesToPay       int64  `json:"fees_to_pay"`       // owed by the host to the platform
	PayoutToReceive int64  `json:"payout_to_receive"` // owed by the platform to the host
	BlockedByFee    bool   `json:"blocked_by_fee"`
	Lines           []Line `json:"lines"`
}

// Compute settles a partner's items using PartnerSales. Hosts collect
// payment directly for every category except minddate, so ended unsettled
// items leave the host owing the fee; minddate payments go through the
// platform, which owes the host the payout instead. Any ended unsettled
// item outside minddate blocks new listings, even with nothing sold.
func Compute(items []models.Item, rate int) Summary {
	s := Summary{Rate: rate, Lines: []Line{}}
	for i := range items {
		line := NewLine(&items[i], rate, PartnerSales(&items[i]))
		s.Lines = append(s.Lines, line)
		s.TotalSales += line.Revenue
		s.TotalFees += line.Fee
		s.NetProfit += line.Payout

		if !line.Outstanding() {
			continue
		}
		if line.Category == models.CategoryMinddate {
			s.PayoutToReceive += line.Payout
		} else {
			s.FeesToPay += line.Fee
			s.BlockedByFee = true
		}
	}
	return s
}

// Overview returns per-item lines, counted with RecordedSales, for every
// item with at least one sale.
func Overview(items []models.Item, rate int) []Line {
	lines := []Line{}
	for i := range items {
		line := NewLine(&items[i], rate, RecordedSales(&items[i]))
		if line.Sales > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

var wonPrinter = message.NewPrinter(language.Korean)

// FormatWon renders an amount as "12,345원".
func FormatWon(n int64) string {
	return strings.TrimSpace(wonPrinter.Sprintf("%d원", n))
}
