package scenario

import (
	"context"
	"net/url"

	"wfbench/internal/workflow"
)

type sellerState struct {
	shopID string
}

// SellerDashboard loads everything the seller dashboard shows.
func SellerDashboard(env Env) *workflow.Scripted {
	api := env.Client
	return workflow.Script("seller-dashboard", func(ctx context.Context, w *workflow.Workflow) error {
		var st sellerState
		shopQuery := func() url.Values { return url.Values{"shopId": []string{st.shopID}} }

		w.ExecuteStep(ctx, "Load shop", func(ctx context.Context) (interface{}, error) {
			shops, err := api.Shops().List(ctx, map[string]string{"owner": "me"})
			if err != nil {
				return nil, err
			}
			shop, err := first(shops, "shops owned by the current user")
			if err != nil {
				return nil, err
			}
			st.shopID = shop.ID()
			return shop, nil
		})

		w.ExecuteStep(ctx, "Load categories", func(ctx context.Context) (interface{}, error) {
			categories, err := api.Categories().List(ctx, nil)
			if err != nil {
				return nil, err
			}
			return len(categories), nil
		})

		w.ExecuteStep(ctx, "Load shop products", func(ctx context.Context) (interface{}, error) {
			if err := need(st.shopID, "shop"); err != nil {
				return nil, err
			}
			products, err := api.Products().List(ctx, map[string]string{"shopId": st.shopID})
			if err != nil {
				return nil, err
			}
			return len(products), nil
		})

		w.ExecuteStep(ctx, "Load sales analytics", func(ctx context.Context) (interface{}, error) {
			if err := need(st.shopID, "shop"); err != nil {
				return nil, err
			}
			return api.Analytics().Get(ctx, "sales", shopQuery())
		})

		w.ExecuteStep(ctx, "Load order analytics", func(ctx context.Context) (interface{}, error) {
			if err := need(st.shopID, "shop"); err != nil {
				return nil, err
			}
			return api.Analytics().Get(ctx, "orders", shopQuery())
		})

		w.ExecuteOptionalStep(ctx, "Export sales report", func(ctx context.Context) (interface{}, error) {
			if err := need(st.shopID, "shop"); err != nil {
				return nil, err
			}
			return api.Analytics().Get(ctx, "export", shopQuery())
		})
		return nil
	}, workflow.WithClock(env.Clock), workflow.WithExpectedSteps(6))
}
