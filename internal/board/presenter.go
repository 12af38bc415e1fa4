package board

import (
	"flycenter-counter/internal/stories/orders"
	"flycenter-counter/internal/stories/pricing"
)

// RowView is the visual representation of one order, fully derived from
// its snapshot. Rebuilding a row means rebuilding this value.
type RowView struct {
	OrderID     string
	Name        string
	TagNo       string
	CreatedTime string

	Summary   string
	Breakdown []string

	TierLabel          string
	PaymentMethodLabel string
	StatusLabel        string
	State              orders.EffectiveState

	AmountText string
	Overridden bool

	PickupText string
	LatePickup bool

	Note            string
	LuggageImageURL string
	DetailURL       string

	BillingLocked bool
	ManualEntry   bool
}

// Presenter builds row views. Mechanical: everything comes from the
// snapshot plus the pricing rules; there is no state here.
type Presenter struct {
	loc  Localizer
	lang string
}

func NewPresenter(loc Localizer, lang string) *Presenter {
	return &Presenter{loc: loc, lang: lang}
}

func (p *Presenter) Present(o orders.Order) RowView {
	tier := pricing.NormalizeTier(string(o.FlyingPassTier), pricing.TierNone)
	discount := pricing.MemberDiscount(o.BasePrepaidAmount, tier)
	auto := pricing.AutoPrepaid(o.BasePrepaidAmount, tier)

	tierLabel := p.loc.Get(p.lang, "tier."+string(tier), nil)

	summary := p.loc.Get(p.lang, "board.summary", map[string]interface{}{
		"suitcase": o.SuitcaseQty,
		"backpack": o.BackpackQty,
		"set":      o.SetQty,
		"per_day":  pricing.FormatYen(o.PricePerDay),
		"days":     o.ExpectedStorageDays,
	})

	breakdown := []string{
		p.loc.Get(p.lang, "breakdown.quantities", map[string]interface{}{
			"suitcase": o.SuitcaseQty,
			"backpack": o.BackpackQty,
			"set":      o.SetQty,
		}),
		p.loc.Get(p.lang, "breakdown.rate", map[string]interface{}{
			"per_day": pricing.FormatYen(o.PricePerDay),
			"days":    o.ExpectedStorageDays,
		}),
		p.loc.Get(p.lang, "breakdown.base", map[string]interface{}{
			"amount": pricing.FormatYen(o.BasePrepaidAmount),
		}),
		p.loc.Get(p.lang, "breakdown.discount", map[string]interface{}{
			"tier":   tierLabel,
			"amount": pricing.FormatYen(discount),
		}),
		p.loc.Get(p.lang, "breakdown.auto", map[string]interface{}{
			"amount": pricing.FormatYen(auto),
		}),
		p.loc.Get(p.lang, "breakdown.final", map[string]interface{}{
			"amount": pricing.FormatYen(o.PrepaidAmount),
		}),
	}

	pickupText := o.ExpectedPickupDate
	if o.ExpectedPickupTime != "" {
		pickupText += " " + o.ExpectedPickupTime
	}

	return RowView{
		OrderID:            o.OrderID,
		Name:               o.Name,
		TagNo:              o.TagNo,
		CreatedTime:        o.CreatedTime,
		Summary:            summary,
		Breakdown:          breakdown,
		TierLabel:          tierLabel,
		PaymentMethodLabel: p.loc.Get(p.lang, "payment."+string(o.PaymentMethod), nil),
		StatusLabel:        p.loc.Get(p.lang, "status."+string(o.EffectiveState()), nil),
		State:              o.EffectiveState(),
		AmountText:         pricing.FormatYen(o.PrepaidAmount),
		Overridden:         pricing.IsOverridden(o.PrepaidAmount, o.BasePrepaidAmount, tier),
		PickupText:         pickupText,
		LatePickup:         pricing.IsLatePickup(o.ExpectedPickupTime),
		Note:               o.Note,
		LuggageImageURL:    o.LuggageImageURL,
		DetailURL:          o.DetailURL,
		BillingLocked:      !o.CanEditBilling(),
		ManualEntry:        o.ManualEntry,
	}
}

// Placeholder is the single row shown when a snapshot comes back empty.
func (p *Presenter) Placeholder() RowView {
	return RowView{
		Summary: p.loc.Get(p.lang, "board.empty", nil),
	}
}
