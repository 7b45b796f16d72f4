// Package storage provides the object-storage client and the snapshot store
// built on top of it.
//
// Snapshots are sectioned models serialized as JSON and written under
// snapshots/<name>.json in the configured bucket. They let a restarted
// process re-render a surface before the observed store has re-synced, and
// back the `snapshot export` and `snapshot import` CLI commands.
//
// The Client interface wraps the Minio SDK so the snapshot store can be
// tested against testify mocks (see the mocks subpackage).
package storage
