package scenario

import (
	"context"

	"wfbench/internal/workflow"
)

type reviewState struct {
	productID string
	reviewID  string
}

// ReviewLifecycle creates a review, edits it and removes it again.
func ReviewLifecycle(env Env) *workflow.Scripted {
	api := env.Client
	return workflow.Script("review-lifecycle", func(ctx context.Context, w *workflow.Workflow) error {
		var st reviewState

		w.ExecuteStep(ctx, "Pick product", func(ctx context.Context) (interface{}, error) {
			products, err := api.Products().List(ctx, map[string]string{"limit": "1"})
			if err != nil {
				return nil, err
			}
			product, err := first(products, "products")
			if err != nil {
				return nil, err
			}
			st.productID = product.ID()
			return product, nil
		})

		w.ExecuteStep(ctx, "Create review", func(ctx context.Context) (interface{}, error) {
			if err := need(st.productID, "product"); err != nil {
				return nil, err
			}
			review, err := api.Reviews().Create(ctx, map[string]interface{}{
				"productId": st.productID,
				"rating":    5,
				"comment":   "Great product, arrived on time.",
			})
			if err != nil {
				return nil, err
			}
			st.reviewID = review.ID()
			return review, need(st.reviewID, "review id in the create response")
		})

		w.ExecuteStep(ctx, "Edit review", func(ctx context.Context) (interface{}, error) {
			if err := need(st.reviewID, "review"); err != nil {
				return nil, err
			}
			return api.Reviews().Update(ctx, st.reviewID, map[string]interface{}{"rating": 4})
		})

		w.ExecuteStep(ctx, "Verify review updated", func(ctx context.Context) (interface{}, error) {
			if err := need(st.reviewID, "review"); err != nil {
				return nil, err
			}
			review, err := api.Reviews().GetByID(ctx, st.reviewID)
			if err != nil {
				return nil, err
			}
			return review, expectField(review, "rating", "4")
		})

		w.ExecuteStep(ctx, "Delete review", func(ctx context.Context) (interface{}, error) {
			if err := need(st.reviewID, "review"); err != nil {
				return nil, err
			}
			return nil, api.Reviews().Delete(ctx, st.reviewID)
		})
		return nil
	}, workflow.WithClock(env.Clock), workflow.WithExpectedSteps(5))
}
