// Package server holds the configuration for the HTTP inspector server,
// including the listen port, optional API key, and the reconciliation policy
// the served surface runs under.
package server
