// Package dispatch decouples gateway event production from handler
// consumption: a registry of event name to ordered handler list, a
// static table mapping wire tags to handler keys, and the Decoder
// contract for turning raw payloads into typed events.
package dispatch
