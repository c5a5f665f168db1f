// Package domain contains the core business types for the docuflow CLI.
//
// The domain layer has no external dependencies. It models the document
// workflow (statuses, actions, versions), the authentication session, and
// the error taxonomy shared across adapters. All transport, persistence,
// and PDF concerns live in adapters.
package domain
