// Package http exposes the registry over JSON.
//
// The router mounts:
//   - GET/POST /api/tipopessoa, /api/tipoevento, /api/pessoatiposociedade and
//     PATCH/DELETE on /{id}: lookup catalogs, see catalog_handler.go.
//   - /api/pessoa: people. Writes answer with the stored row keyed by column
//     name; reads answer with the camelCase view carrying age and role labels.
//     GET /api/pessoa/{id}/sociedades lists active memberships.
//   - /api/sociedades, /api/eventos and /api/usuario with PATCH /{id}/deactivate.
//   - /api/pessoassociedade: memberships. An empty PATCH body deactivates.
//   - /api/conselho: council entries, at most one active entry per person.
//   - POST /api/auth/login and GET /api/auth/session/{id}.
//   - POST /api/upload/pessoa/{id} and /api/upload/evento/{id} (multipart "file").
//   - GET /api/dashboard, /health and /metrics.
//
// Errors are always {"error": "..."} with a Portuguese message; validation
// failures add the offending fields under "campos".
package http
