// Package rest provides the authenticated REST client for the Scatter
// API. Requests honor platform rate limits (429 + Retry-After), retry
// transient failures with capped exponential backoff, and map error
// statuses to a typed taxonomy.
package rest
