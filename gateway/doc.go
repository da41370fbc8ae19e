// Package gateway owns the persistent websocket connection to the
// Scatter gateway: authentication handshake, heartbeat, inbound frame
// decoding, reconnection with capped exponential backoff, and
// subscription replay after every successful re-authentication.
package gateway
