// Package driving defines the inbound ports of the docuflow core: the
// interfaces the CLI drives the application through.
package driving
