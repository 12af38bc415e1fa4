package orders

import (
	"fmt"
	"time"

	"flycenter-counter/internal/stories/pricing"
)

// InlineUpdate is the body of the inline-save mutation. All fields are
// optional; the payment-status toggle sends a payload carrying only the
// flipped status. LastKnownPickedUp always rides along so the store can
// reject a save made against a stale lifecycle premise.
type InlineUpdate struct {
	Name             *string        `json:"name,omitempty"`
	TagNo            *string        `json:"tag_no,omitempty"`
	PrepaidAmount    *int           `json:"prepaid_amount,omitempty"`
	FlyingPassTier   *pricing.Tier  `json:"flying_pass_tier,omitempty"`
	PaymentMethod    *PaymentMethod `json:"payment_method,omitempty"`
	PaymentStatus    *PaymentStatus `json:"payment_status,omitempty"`
	ExpectedPickupAt *string        `json:"expected_pickup_at,omitempty"`
	Note             *string        `json:"note,omitempty"`

	LastKnownPickedUp bool `json:"last_known_picked_up"`
}

// PaymentStatusOnly builds the minimal payload used by the pending/paid
// toggle.
func PaymentStatusOnly(status PaymentStatus, lastKnownPickedUp bool) InlineUpdate {
	return InlineUpdate{
		PaymentStatus:     &status,
		LastKnownPickedUp: lastKnownPickedUp,
	}
}

// ValidationError is a local pre-flight failure. It names the offending
// field so the caller can focus it; no request is sent when one occurs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// pickupAtLayout is the combined local date+time format of the inline
// editor's pickup field.
const pickupAtLayout = "2006-01-02T15:04"

// Validate checks every present field. It never touches the network.
func (u InlineUpdate) Validate() error {
	if u.Name != nil && *u.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if u.PrepaidAmount != nil && *u.PrepaidAmount < 0 {
		return &ValidationError{Field: "prepaid_amount", Message: "amount must be zero or greater"}
	}
	if u.FlyingPassTier != nil {
		if pricing.NormalizeTier(string(*u.FlyingPassTier), "") == "" {
			return &ValidationError{Field: "flying_pass_tier", Message: "unknown flying pass tier"}
		}
	}
	if u.PaymentMethod != nil && *u.PaymentMethod != PayQR && *u.PaymentMethod != Cash {
		return &ValidationError{Field: "payment_method", Message: "invalid payment method"}
	}
	if u.PaymentStatus != nil && *u.PaymentStatus != PaymentPending && *u.PaymentStatus != Paid {
		return &ValidationError{Field: "payment_status", Message: "invalid payment status"}
	}
	if u.ExpectedPickupAt != nil {
		t, err := time.ParseInLocation(pickupAtLayout, *u.ExpectedPickupAt, pricing.JST)
		if err != nil {
			return &ValidationError{Field: "expected_pickup_at", Message: "invalid pickup datetime format"}
		}
		if err := pricing.ValidatePickupWindow(t); err != nil {
			return &ValidationError{Field: "expected_pickup_at", Message: err.Error()}
		}
	}
	return nil
}

// touchesBilling reports whether the payload edits fields that lock once
// the luggage is picked up.
func (u InlineUpdate) touchesBilling() bool {
	return u.PrepaidAmount != nil || u.FlyingPassTier != nil || u.PaymentMethod != nil
}
