package scenario

import (
	"context"

	"wfbench/internal/workflow"
)

type ticketState struct {
	ticketID string
}

// SupportTicket opens a ticket, replies and closes it.
func SupportTicket(env Env) *workflow.Scripted {
	api := env.Client
	return workflow.Script("support-ticket", func(ctx context.Context, w *workflow.Workflow) error {
		var st ticketState

		w.ExecuteStep(ctx, "Open ticket", func(ctx context.Context) (interface{}, error) {
			ticket, err := api.Tickets().Create(ctx, map[string]string{
				"subject":  "Order arrived damaged",
				"message":  "The package was crushed in transit.",
				"priority": "normal",
			})
			if err != nil {
				return nil, err
			}
			st.ticketID = ticket.ID()
			return ticket, need(st.ticketID, "ticket id in the create response")
		})

		w.ExecuteStep(ctx, "Verify ticket open", func(ctx context.Context) (interface{}, error) {
			if err := need(st.ticketID, "ticket"); err != nil {
				return nil, err
			}
			ticket, err := api.Tickets().GetByID(ctx, st.ticketID)
			if err != nil {
				return nil, err
			}
			return ticket, expectOneOf(ticket, "status", "open", "new")
		})

		w.ExecuteStep(ctx, "Add reply", func(ctx context.Context) (interface{}, error) {
			if err := need(st.ticketID, "ticket"); err != nil {
				return nil, err
			}
			return api.Tickets().Action(ctx, st.ticketID, "messages", map[string]string{
				"message": "Photos attached.",
			})
		})

		w.ExecuteStep(ctx, "Close ticket", func(ctx context.Context) (interface{}, error) {
			if err := need(st.ticketID, "ticket"); err != nil {
				return nil, err
			}
			return api.Tickets().Action(ctx, st.ticketID, "close", nil)
		})

		w.ExecuteStep(ctx, "Verify ticket closed", func(ctx context.Context) (interface{}, error) {
			if err := need(st.ticketID, "ticket"); err != nil {
				return nil, err
			}
			ticket, err := api.Tickets().GetByID(ctx, st.ticketID)
			if err != nil {
				return nil, err
			}
			return ticket, expectField(ticket, "status", "closed")
		})
		return nil
	}, workflow.WithClock(env.Clock), workflow.WithExpectedSteps(5))
}
