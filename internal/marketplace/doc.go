// Package marketplace is a small HTTP/JSON client for the marketplace REST
// API that the business scenarios exercise.
//
// Every collection (orders, auctions, products, ...) is a Resource with the
// same CRUD surface. Responses are Records read through gjson paths, so the
// harness never depends on the exact response shapes. Non-2xx responses
// become *APIError whose message is the one a failed step records.
//
// Requests are rate limited with golang.org/x/time/rate so a large batch
// does not flood the API under test.
package marketplace
