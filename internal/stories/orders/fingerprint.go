package orders

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/go-faster/jx"
)

// Fingerprint is the canonical content hash of an order snapshot. The
// encoder writes fields in a fixed order, so two snapshots with the same
// content always hash identically regardless of how the wire payload was
// keyed. Used by the board to decide whether a row needs rebuilding.
func Fingerprint(o Order) string {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("order_id", func(e *jx.Encoder) { e.Str(o.OrderID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(o.Name) })
		e.Field("phone", func(e *jx.Encoder) { e.Str(o.Phone) })
		e.Field("tag_no", func(e *jx.Encoder) { e.Str(o.TagNo) })
		e.Field("note", func(e *jx.Encoder) { e.Str(o.Note) })
		e.Field("created_time", func(e *jx.Encoder) { e.Str(o.CreatedTime) })
		e.Field("suitcase_qty", func(e *jx.Encoder) { e.Int(o.SuitcaseQty) })
		e.Field("backpack_qty", func(e *jx.Encoder) { e.Int(o.BackpackQty) })
		e.Field("set_qty", func(e *jx.Encoder) { e.Int(o.SetQty) })
		e.Field("price_per_day", func(e *jx.Encoder) { e.Int(o.PricePerDay) })
		e.Field("expected_storage_days", func(e *jx.Encoder) { e.Int(o.ExpectedStorageDays) })
		e.Field("base_prepaid_amount", func(e *jx.Encoder) { e.Int(o.BasePrepaidAmount) })
		e.Field("flying_pass_tier", func(e *jx.Encoder) { e.Str(string(o.FlyingPassTier)) })
		e.Field("flying_pass_discount_amount", func(e *jx.Encoder) { e.Int(o.FlyingPassDiscountAmount) })
		e.Field("auto_prepaid_amount", func(e *jx.Encoder) { e.Int(o.AutoPrepaidAmount) })
		e.Field("prepaid_amount", func(e *jx.Encoder) { e.Int(o.PrepaidAmount) })
		e.Field("is_price_overridden", func(e *jx.Encoder) { e.Bool(o.IsPriceOverridden) })
		e.Field("payment_method_code", func(e *jx.Encoder) { e.Str(string(o.PaymentMethod)) })
		e.Field("payment_status", func(e *jx.Encoder) { e.Str(string(o.PaymentStatus)) })
		e.Field("is_picked_up", func(e *jx.Encoder) { e.Bool(o.IsPickedUp) })
		e.Field("expected_pickup_date", func(e *jx.Encoder) { e.Str(o.ExpectedPickupDate) })
		e.Field("expected_pickup_time", func(e *jx.Encoder) { e.Str(o.ExpectedPickupTime) })
		e.Field("manual_entry", func(e *jx.Encoder) { e.Bool(o.ManualEntry) })
		e.Field("luggage_image_url", func(e *jx.Encoder) { e.Str(o.LuggageImageURL) })
		e.Field("detail_url", func(e *jx.Encoder) { e.Str(o.DetailURL) })
	})

	sum := sha256.Sum256(e.Bytes())
	return hex.EncodeToString(sum[:])
}
