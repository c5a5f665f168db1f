// Package driven defines the outbound ports of the docuflow core.
// Adapters (REST client, token storage, PDF stamper) implement these
// interfaces; services depend only on the interfaces.
package driven
