// Package server streams parallel batch status to browsers and scripts.
//
// A Hub keeps the latest status snapshot and fans every update out to the
// connected websocket clients:
//
//	hub := server.NewHub()
//	executor.OnStatusUpdate(hub.Publish)
//	go server.Serve(ctx, ":8089", hub.Handler())
//
// Routes:
//
//	GET /ws        websocket; one JSON message per status update
//	GET /statuses  the latest snapshot as JSON
//
// When a token is configured every route requires "Authorization: Bearer
// <token>" (or a token query parameter for websocket clients that cannot set
// headers).
package server
