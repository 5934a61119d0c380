package transaction

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/europemission/martha/internal/period"
)

// Type represents the direction of a transaction (money in or money out).
type Type string

const (
	TypeReceipt Type = "receipt"
	TypePayment Type = "payment"
)

// Category is a closed enumeration of bookkeeping categories. Each category
// belongs to exactly one transaction type, except "other" which exists on both
// sides.
type Category string

const (
	CategoryCircuitContribution Category = "circuit_contribution"
	CategoryDonationReceived    Category = "donation_received"
	CategoryMerchandiseSale     Category = "merchandise_sale"
	CategoryEventIncome         Category = "event_income"
	CategoryDebtRepayment       Category = "debt_repayment"
	CategoryOpeningBalance      Category = "opening_balance"

	CategoryDonationGiven       Category = "donation_given"
	CategoryMerchandisePurchase Category = "merchandise_purchase"
	CategoryTransportation      Category = "transportation"
	CategoryPostage             Category = "postage"
	CategoryEventExpense        Category = "event_expense"
	CategoryAirtime             Category = "airtime"
	CategoryStationery          Category = "stationery"
	CategoryGift                Category = "gift"
	CategoryHonorarium          Category = "honorarium"

	CategoryOther Category = "other"
)

var receiptCategories = []Category{
	CategoryCircuitContribution,
	CategoryDonationReceived,
	CategoryMerchandiseSale,
	CategoryEventIncome,
	CategoryDebtRepayment,
	CategoryOpeningBalance,
	CategoryOther,
}

var paymentCategories = []Category{
	CategoryDonationGiven,
	CategoryMerchandisePurchase,
	CategoryTransportation,
	CategoryPostage,
	CategoryEventExpense,
	CategoryAirtime,
	CategoryStationery,
	CategoryGift,
	CategoryHonorarium,
	CategoryOther,
}

// Categories returns the categories valid for the given type.
func Categories(t Type) []Category {
	if t == TypeReceipt {
		return receiptCategories
	}

	return paymentCategories
}

// ValidCategory reports whether c is a valid category for transactions of type t.
func ValidCategory(c Category, t Type) bool {
	for _, cat := range Categories(t) {
		if cat == c {
			return true
		}
	}

	return false
}

// Label returns the human-readable form of the category ("circuit_contribution"
// becomes "Circuit Contribution").
func (c Category) Label() string {
	parts := strings.Split(string(c), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}

		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}

	return strings.Join(parts, " ")
}

// Item is a single merchandise line on a transaction. Total is always
// Quantity × UnitPrice, computed at write time.
type Item struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// Transaction is a single receipt or payment record. Quarter and Year are
// derived from Date at write time and stay consistent with it.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Type        Type            `json:"type"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CircuitID   *uuid.UUID      `json:"circuitId,omitempty"`
	EventID     *uuid.UUID      `json:"eventId,omitempty"`
	Quarter     period.Quarter  `json:"quarter"`
	Year        int             `json:"year"`
	Items       []Item          `json:"items,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
