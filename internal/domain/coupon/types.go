package coupon

// DiscountType is a closed set. Every monetary computation switches over it
// exhaustively so an unknown type fails loudly instead of silently applying
// no discount.
type DiscountType string

const (
	DiscountFixed        DiscountType = "fixed"
	DiscountPercentage   DiscountType = "percentage"
	DiscountFreeShipping DiscountType = "free_shipping"
	DiscountBundle       DiscountType = "bundle"
)

func (t DiscountType) String() string {
	return string(t)
}

func (t DiscountType) IsValid() bool {
	switch t {
	case DiscountFixed, DiscountPercentage, DiscountFreeShipping, DiscountBundle:
		return true
	default:
		return false
	}
}
