package scenario

import (
	"context"

	"wfbench/internal/workflow"
)

type returnState struct {
	orderID  string
	returnID string
}

// ReturnFlow requests a return for a delivered order.
func ReturnFlow(env Env) *workflow.Scripted {
	api := env.Client
	return workflow.Script("return-flow", func(ctx context.Context, w *workflow.Workflow) error {
		var st returnState

		w.ExecuteStep(ctx, "Find delivered order", func(ctx context.Context) (interface{}, error) {
			orders, err := api.Orders().List(ctx, map[string]string{"status": "delivered"})
			if err != nil {
				return nil, err
			}
			order, err := first(orders, "delivered orders")
			if err != nil {
				return nil, err
			}
			st.orderID = order.ID()
			return order, nil
		})

		w.ExecuteStep(ctx, "Request return", func(ctx context.Context) (interface{}, error) {
			if err := need(st.orderID, "order"); err != nil {
				return nil, err
			}
			ret, err := api.Returns().Create(ctx, map[string]string{
				"orderId": st.orderID,
				"reason":  "damaged",
			})
			if err != nil {
				return nil, err
			}
			st.returnID = ret.ID()
			return ret, need(st.returnID, "return id in the create response")
		})

		w.ExecuteStep(ctx, "Verify return requested", func(ctx context.Context) (interface{}, error) {
			if err := need(st.returnID, "return"); err != nil {
				return nil, err
			}
			ret, err := api.Returns().GetByID(ctx, st.returnID)
			if err != nil {
				return nil, err
			}
			return ret, expectOneOf(ret, "status", "pending", "requested")
		})

		w.ExecuteOptionalStep(ctx, "Upload return label", func(ctx context.Context) (interface{}, error) {
			if err := need(st.returnID, "return"); err != nil {
				return nil, err
			}
			return api.Returns().Action(ctx, st.returnID, "label", nil)
		})

		w.ExecuteStep(ctx, "Verify order marked for refund", func(ctx context.Context) (interface{}, error) {
			return verifyOrderStatus(ctx, api, st.orderID, "return_requested", "refund_pending", "refunded")
		})
		return nil
	}, workflow.WithClock(env.Clock), workflow.WithExpectedSteps(5))
}
