// Package http provides HTTP handlers and middleware for the on-call roster API.
//
// The router exposes the following endpoints:
//   - GET /rotations, POST /rotations, GET /rotations/{id}, PUT /rotations/{id},
//     DELETE /rotations/{id}: rotation definition endpoints exchanging the
//     `rotationRequest`/`rotationResponse` payloads defined in rotation_handler.go.
//   - GET /rotations/{id}/overrides, POST /rotations/{id}/overrides,
//     DELETE /rotations/{id}/overrides/{overrideID}: override exception endpoints
//     exchanging the payloads defined in override_handler.go. Overrides are always
//     addressed through their owning rotation.
//   - GET /rotations/{id}/timeline?from=&until=: renders the merged on-call
//     timeline for the half-open window [from, until). Both bounds are RFC 3339
//     timestamps. Responses include non-nested overlap warnings alongside the
//     rendered segments.
//
// All timestamps on the wire are RFC 3339 in UTC. Request/response DTOs live
// alongside their respective handlers so tests and documentation share the same
// ground truth.
package http
