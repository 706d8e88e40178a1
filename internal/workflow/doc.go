// Package workflow runs business scenarios as ordered, individually timed
// steps.
//
// A step is an Action executed through Workflow.ExecuteStep. The executor
// times the action, records success or failure in a StepResult and never
// lets an error or panic escape: the workflow continues with its next step
// so that a run always produces a complete diagnostic trace.
//
// # Defining workflows
//
// Workflows come in two shapes. A Definition lists its steps up front:
//
//	def := &workflow.Definition{
//		Name: "catalog-smoke",
//		Steps: []workflow.Step{
//			{Name: "list categories", Action: listCategories},
//			{Name: "send digest", Optional: true, Action: sendDigest},
//		},
//	}
//	result, _ := def.Run(ctx)
//
// A Script issues steps imperatively and keeps typed state between them in
// the closure, which is how a later step reads an order id created earlier:
//
//	wf := workflow.Script("purchase-flow", func(ctx context.Context, w *workflow.Workflow) error {
//		var orderID string
//		w.ExecuteStep(ctx, "create order", func(ctx context.Context) (interface{}, error) {
//			order, err := orders.Create(ctx, payload)
//			if err == nil {
//				orderID = order.ID()
//			}
//			return order, err
//		})
//		...
//		return nil
//	})
//
// Both implement Runnable. Run guards any Runnable against panics, and the
// ExecutionTracker wraps finished results into WorkflowRuns and stores them.
//
// # Observers
//
// StepObservers attached to the context with WithObserver are notified
// before and after every step. The console reporter and the parallel
// executor use them for live progress.
package workflow
