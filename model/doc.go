// Package model defines the domain entities returned by the Scatter REST
// API and carried in gateway event payloads, plus the standard Decoder
// that turns raw gateway payloads into typed events.
package model
