// Package api is the client for the events backend.
//
// # Overview
//
// Client is the single point of contact with the backend. It owns the
// lifecycle of the bearer token: the token is read from a credentials.Store
// before every request and attached as "Authorization: Bearer <token>" when
// present, written after a successful Login or Signup, and deleted on Logout
// or whenever the backend answers 401.
//
// # Error Handling
//
// Every operation returns its payload or an error, never both:
//
//   - *HTTPError for any non-2xx status; the body is discarded. errors.Is
//     matches ErrUnauthorized for 401 and ErrNotFound for 404.
//   - *TransportError when the request could not be sent or read.
//   - *DecodeError when a 2xx body does not have the expected shape.
//
// Credential store failures are logged and never returned; a token that
// cannot be read is treated as absent.
//
// Nothing is retried and no timeout is imposed beyond the transport's own;
// callers may bound a call through its context.
package api
