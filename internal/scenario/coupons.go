package scenario

import (
	"context"
	"fmt"

	"wfbench/internal/workflow"
)

type couponState struct {
	code      string
	productID string
	orderID   string
}

// CouponCheckout applies an active coupon to a new order.
func CouponCheckout(env Env) *workflow.Scripted {
	api := env.Client
	return workflow.Script("coupon-checkout", func(ctx context.Context, w *workflow.Workflow) error {
		var st couponState

		w.ExecuteStep(ctx, "Find active coupon", func(ctx context.Context) (interface{}, error) {
			coupons, err := api.Coupons().List(ctx, map[string]string{"active": "true"})
			if err != nil {
				return nil, err
			}
			coupon, err := first(coupons, "active coupons")
			if err != nil {
				return nil, err
			}
			st.code = coupon.String("code")
			return coupon, need(st.code, "coupon code")
		})

		w.ExecuteStep(ctx, "Validate coupon", func(ctx context.Context) (interface{}, error) {
			if err := need(st.code, "coupon code"); err != nil {
				return nil, err
			}
			result, err := api.Coupons().Action(ctx, st.code, "validate", map[string]float64{"amount": 100})
			if err != nil {
				return nil, err
			}
			if !result.Get("valid").Bool() {
				return result, fmt.Errorf("coupon %s was rejected", st.code)
			}
			return result, nil
		})

		w.ExecuteStep(ctx, "Pick product", func(ctx context.Context) (interface{}, error) {
			products, err := api.Products().List(ctx, map[string]string{"limit": "1", "inStock": "true"})
			if err != nil {
				return nil, err
			}
			product, err := first(products, "products in stock")
			if err != nil {
				return nil, err
			}
			st.productID = product.ID()
			return product, nil
		})

		w.ExecuteStep(ctx, "Create order with coupon", func(ctx context.Context) (interface{}, error) {
			if err := need(st.productID, "product"); err != nil {
				return nil, err
			}
			order, err := api.Orders().Create(ctx, map[string]interface{}{
				"items":      []map[string]interface{}{{"productId": st.productID, "quantity": 1}},
				"couponCode": st.code,
			})
			if err != nil {
				return nil, err
			}
			st.orderID = order.ID()
			return order, need(st.orderID, "order id in the create response")
		})

		w.ExecuteStep(ctx, "Verify discount applied", func(ctx context.Context) (interface{}, error) {
			if err := need(st.orderID, "order"); err != nil {
				return nil, err
			}
			order, err := api.Orders().GetByID(ctx, st.orderID)
			if err != nil {
				return nil, err
			}
			if order.Float("discount") <= 0 {
				return order, fmt.Errorf("order %s has no discount", st.orderID)
			}
			return order, nil
		})
		return nil
	}, workflow.WithClock(env.Clock), workflow.WithExpectedSteps(5))
}
