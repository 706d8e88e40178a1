package scenario

import (
	"context"
	"fmt"

	"wfbench/internal/workflow"
)

// minBidIncrement is added to the current price when bidding.
const minBidIncrement = 1.0

type auctionState struct {
	auctionID string
	current   float64
	bid       float64
}

// AuctionBidding outbids the current leader of an active auction.
func AuctionBidding(env Env) *workflow.Scripted {
	api := env.Client
	return workflow.Script("auction-bidding", func(ctx context.Context, w *workflow.Workflow) error {
		var st auctionState

		w.ExecuteStep(ctx, "List active auctions", func(ctx context.Context) (interface{}, error) {
			auctions, err := api.Auctions().List(ctx, map[string]string{"status": "active"})
			if err != nil {
				return nil, err
			}
			auction, err := first(auctions, "active auctions")
			if err != nil {
				return nil, err
			}
			st.auctionID = auction.ID()
			return len(auctions), nil
		})

		w.ExecuteStep(ctx, "Load auction", func(ctx context.Context) (interface{}, error) {
			if err := need(st.auctionID, "auction"); err != nil {
				return nil, err
			}
			auction, err := api.Auctions().GetByID(ctx, st.auctionID)
			if err != nil {
				return nil, err
			}
			st.current = auction.Float("currentBid")
			if st.current == 0 {
				st.current = auction.Float("startingPrice")
			}
			return auction, nil
		})

		w.ExecuteStep(ctx, "Place bid", func(ctx context.Context) (interface{}, error) {
			if err := need(st.auctionID, "auction"); err != nil {
				return nil, err
			}
			st.bid = st.current + minBidIncrement
			return api.Auctions().Action(ctx, st.auctionID, "bids", map[string]float64{"amount": st.bid})
		})

		w.ExecuteOptionalStep(ctx, "Watch auction", func(ctx context.Context) (interface{}, error) {
			if err := need(st.auctionID, "auction"); err != nil {
				return nil, err
			}
			return api.Auctions().Action(ctx, st.auctionID, "watch", nil)
		})

		w.ExecuteStep(ctx, "Verify highest bid", func(ctx context.Context) (interface{}, error) {
			if err := need(st.auctionID, "auction"); err != nil {
				return nil, err
			}
			auction, err := api.Auctions().GetByID(ctx, st.auctionID)
			if err != nil {
				return nil, err
			}
			if highest := auction.Float("currentBid"); highest < st.bid {
				return auction, fmt.Errorf("highest bid %.2f is below our bid %.2f", highest, st.bid)
			}
			return auction, nil
		})
		return nil
	}, workflow.WithClock(env.Clock), workflow.WithExpectedSteps(5))
}
