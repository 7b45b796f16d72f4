// Package inspect exposes the reconciliation engine over HTTP for debugging
// and integration tests.
//
// # Endpoints
//
//   - GET  /api/surface: current surface state (section counts, visible
//     cells, recorded patch operations)
//   - POST /api/transactions: apply a JSON transaction to the observed model
//     and replay it against the surface, returning the patch operations the
//     replay issued
//
// The feature owns an in-memory sectioned model and drives it through the
// same notification bridge and reconciler policies the production path uses,
// so what the endpoints show is the real replay behavior, not a simulation.
package inspect
