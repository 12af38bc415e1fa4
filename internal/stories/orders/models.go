package orders

import (
	"flycenter-counter/internal/stories/pricing"
)

// Status is a wire-level order status filter value.
type Status string

const (
	StatusPaymentPending Status = "PAYMENT_PENDING"
	StatusPaid           Status = "PAID"
	StatusPickedUp       Status = "PICKED_UP"
)

// PaymentMethod is how the order is settled at the counter.
type PaymentMethod string

const (
	PayQR PaymentMethod = "PAY_QR"
	Cash  PaymentMethod = "CASH"
)

// PaymentStatus is the payment half of the order lifecycle.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PAYMENT_PENDING"
	Paid           PaymentStatus = "PAID"
)

// Order is one luggage-storage transaction as returned by the order
// store. The store is the sole source of truth; every field here is
// server-sourced and the board only re-derives display values from it.
type Order struct {
	OrderID     string `json:"order_id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	TagNo       string `json:"tag_no"`
	Note        string `json:"note"`
	CreatedTime string `json:"created_time"`

	SuitcaseQty int `json:"suitcase_qty"`
	BackpackQty int `json:"backpack_qty"`
	SetQty      int `json:"set_qty"`

	PricePerDay         int `json:"price_per_day"`
	ExpectedStorageDays int `json:"expected_storage_days"`
	BasePrepaidAmount   int `json:"base_prepaid_amount"`

	FlyingPassTier           pricing.Tier `json:"flying_pass_tier"`
	FlyingPassDiscountAmount int          `json:"flying_pass_discount_amount"`
	AutoPrepaidAmount        int          `json:"auto_prepaid_amount"`
	PrepaidAmount            int          `json:"prepaid_amount"`
	IsPriceOverridden        bool         `json:"is_price_overridden"`

	PaymentMethod PaymentMethod `json:"payment_method_code"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	IsPickedUp    bool          `json:"is_picked_up"`

	ExpectedPickupDate string `json:"expected_pickup_date"`
	ExpectedPickupTime string `json:"expected_pickup_time"`

	ManualEntry     bool   `json:"manual_entry"`
	LuggageImageURL string `json:"luggage_image_url"`
	DetailURL       string `json:"detail_url"`
}

// EffectiveState collapses payment_status and is_picked_up into the
// three states the board works with.
type EffectiveState string

const (
	StatePending  EffectiveState = "PENDING"
	StatePaid     EffectiveState = "PAID"
	StatePickedUp EffectiveState = "PICKED_UP"
)

func (o *Order) EffectiveState() EffectiveState {
	switch {
	case o.IsPickedUp:
		return StatePickedUp
	case o.PaymentStatus == Paid:
		return StatePaid
	default:
		return StatePending
	}
}

// CanEditBilling reports whether tier, amount and payment-method fields
// are still editable. They lock once the luggage is picked up and stay
// locked until the pickup is explicitly undone.
func (o *Order) CanEditBilling() bool {
	return !o.IsPickedUp
}

// CanTogglePayment reports whether the pending/paid toggle is allowed.
func (o *Order) CanTogglePayment() bool {
	return !o.IsPickedUp
}
