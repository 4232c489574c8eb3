// Package catalog defines the vendor product domain types and the HTTP
// client for the remote catalog service.
//
// The client covers the six operations the service exposes: paged listing,
// multipart create and update, delete, single-product status toggle, and a
// bulk action endpoint that carries the whole identifier set in one request.
// Every request authenticates with a bearer credential supplied by a
// TokenFunc; the session layer that produces the credential lives outside
// this module.
//
// Errors are reported as *APIError, distinguishing transport failures
// (StatusCode zero) from non-2xx responses. The package also owns ErrBusy,
// the sentinel the mutation coordinator returns when a product already has a
// change in flight.
//
// The package is intentionally stateless: no caching, no retries, no
// staleness handling. Sequencing of listing responses is the fetch package's
// job, and retry policy belongs to whoever surfaces the error.
package catalog
