package domain

// Voucher is a static catalog entry redeemable for DuoCoins. Vouchers are
// not persisted; the catalog only validates redemption affordability.
type Voucher struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Cost        int    `json:"cost"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// VoucherCatalog is the fixed set of redeemable vouchers.
var VoucherCatalog = []Voucher{
	{ID: "cafe-coupon", Name: "Nearby Cafe Coupons", Cost: 100, Description: "Coupons worth up to ₹100 at nearby cafes", Icon: "ri-cup-line", Color: "from-brown-600 to-brown-800"},
	{ID: "amazon-50", Name: "Amazon ₹50", Cost: 60, Description: "Amazon voucher worth ₹50", Icon: "ri-shopping-bag-line", Color: "from-orange-600 to-orange-800"},
	{ID: "gfg-course", Name: "GFG Course Access", Cost: 80, Description: "GeeksforGeeks premium course access", Icon: "ri-code-line", Color: "from-purple-600 to-purple-800"},
	{ID: "event-pass", Name: "College Event Pass", Cost: 100, Description: "Free entry to next college event", Icon: "ri-ticket-line", Color: "from-red-600 to-red-800"},
	{ID: "canteen-100", Name: "Canteen Pass ₹100", Cost: 150, Description: "College canteen voucher", Icon: "ri-restaurant-line", Color: "from-green-600 to-green-800"},
}

// FindVoucher looks up a catalog voucher by ID.
func FindVoucher(id string) (Voucher, bool) {
	for _, v := range VoucherCatalog {
		if v.ID == id {
			return v, true
		}
	}
	return Voucher{}, false
}
