package scenario

import (
	"context"
	"fmt"

	"wfbench/internal/marketplace"
	"wfbench/internal/workflow"
)

// purchaseState is the data carried between purchase-flow steps.
type purchaseState struct {
	productID string
	price     float64
	orderID   string
}

// PurchaseFlow browses the catalog, orders the first product and pays for it.
func PurchaseFlow(env Env) *workflow.Scripted {
	api := env.Client
	return workflow.Script("purchase-flow", func(ctx context.Context, w *workflow.Workflow) error {
		var st purchaseState

		w.ExecuteStep(ctx, "Browse products", func(ctx context.Context) (interface{}, error) {
			products, err := api.Products().List(ctx, map[string]string{"limit": "10", "inStock": "true"})
			if err != nil {
				return nil, err
			}
			product, err := first(products, "products in stock")
			if err != nil {
				return nil, err
			}
			st.productID = product.ID()
			return len(products), nil
		})

		w.ExecuteStep(ctx, "View product details", func(ctx context.Context) (interface{}, error) {
			if err := need(st.productID, "product"); err != nil {
				return nil, err
			}
			product, err := api.Products().GetByID(ctx, st.productID)
			if err != nil {
				return nil, err
			}
			st.price = product.Float("price")
			if st.price <= 0 {
				return nil, fmt.Errorf("product %s has no price", st.productID)
			}
			return product, nil
		})

		w.ExecuteStep(ctx, "Create order", func(ctx context.Context) (interface{}, error) {
			if err := need(st.productID, "product"); err != nil {
				return nil, err
			}
			order, err := api.Orders().Create(ctx, map[string]interface{}{
				"items": []map[string]interface{}{{"productId": st.productID, "quantity": 1}},
			})
			if err != nil {
				return nil, err
			}
			st.orderID = order.ID()
			return order, need(st.orderID, "order id in the create response")
		})

		w.ExecuteStep(ctx, "Verify order created", func(ctx context.Context) (interface{}, error) {
			if err := need(st.orderID, "order"); err != nil {
				return nil, err
			}
			order, err := api.Orders().GetByID(ctx, st.orderID)
			if err != nil {
				return nil, err
			}
			if total := order.Float("total"); st.price > 0 && total < st.price {
				return order, fmt.Errorf("order total %.2f is below the product price %.2f", total, st.price)
			}
			return order, nil
		})

		w.ExecuteStep(ctx, "Pay for order", func(ctx context.Context) (interface{}, error) {
			if err := need(st.orderID, "order"); err != nil {
				return nil, err
			}
			return api.Orders().Action(ctx, st.orderID, "pay", map[string]string{"method": "test-card"})
		})

		w.ExecuteOptionalStep(ctx, "Send confirmation email", func(ctx context.Context) (interface{}, error) {
			if err := need(st.orderID, "order"); err != nil {
				return nil, err
			}
			return api.Orders().Action(ctx, st.orderID, "notify", nil)
		})

		w.ExecuteStep(ctx, "Verify order paid", func(ctx context.Context) (interface{}, error) {
			return verifyOrderStatus(ctx, api, st.orderID, "paid", "processing")
		})
		return nil
	}, workflow.WithClock(env.Clock), workflow.WithExpectedSteps(7))
}

func verifyOrderStatus(ctx context.Context, api *marketplace.Client, orderID string, want ...string) (interface{}, error) {
	if err := need(orderID, "order"); err != nil {
		return nil, err
	}
	order, err := api.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return order, expectOneOf(order, "status", want...)
}
