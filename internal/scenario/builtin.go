package scenario

import (
	"wfbench/internal/workflow"
)

// Builtins returns the business scenarios defined in code.
func Builtins() []Entry {
	entries := []Entry{
		{
			Name:        "purchase-flow",
			Description: "Browse the catalog, place an order, pay for it and verify its status",
			Tags:        []string{"orders", "checkout", "smoke"},
			Build:       func(env Env) workflow.Runnable { return PurchaseFlow(env) },
		},
		{
			Name:        "auction-bidding",
			Description: "Find an active auction, place a higher bid and verify it leads",
			Tags:        []string{"auctions"},
			Build:       func(env Env) workflow.Runnable { return AuctionBidding(env) },
		},
		{
			Name:        "return-flow",
			Description: "Request a return for a delivered order and follow it to a refund",
			Tags:        []string{"orders", "returns"},
			Build:       func(env Env) workflow.Runnable { return ReturnFlow(env) },
		},
		{
			Name:        "review-lifecycle",
			Description: "Create, edit, verify and delete a product review",
			Tags:        []string{"reviews", "catalog"},
			Build:       func(env Env) workflow.Runnable { return ReviewLifecycle(env) },
		},
		{
			Name:        "coupon-checkout",
			Description: "Validate an active coupon and apply it to a new order",
			Tags:        []string{"orders", "checkout", "coupons"},
			Build:       func(env Env) workflow.Runnable { return CouponCheckout(env) },
		},
		{
			Name:        "support-ticket",
			Description: "Open a support ticket, reply to it and close it",
			Tags:        []string{"support"},
			Build:       func(env Env) workflow.Runnable { return SupportTicket(env) },
		},
		{
			Name:        "seller-dashboard",
			Description: "Load a seller's shop, catalog and sales analytics",
			Tags:        []string{"seller", "analytics", "smoke"},
			Build:       func(env Env) workflow.Runnable { return SellerDashboard(env) },
		},
	}
	for i := range entries {
		entries[i].Source = SourceBuiltin
	}
	return entries
}
