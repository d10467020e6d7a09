// Package acl is the Anti-Corruption Layer between remote services and the
// domain. Adapters here own the upstream wire types, translate upstream
// failures into domain errors and hand the application only domain values.
//
// The only upstream today is the Gemini REST API, used by [RESTGenerator]
// when generator.backend is "rest". Error translation:
//   - 404 / NOT_FOUND → [domain.ErrNotFound]
//   - 401, 403, 429, 5xx, transport errors, open circuit → [domain.ErrUnavailable]
//   - other 4xx → [domain.ErrValidation]
//   - unparsable or incomplete replies → [domain.ErrInvalidResponse]
package acl
