// Package api defines the request and response bodies of the quotedesk HTTP API.
//
// # API Overview
//
// quotedesk serves the quote workflow of a 3D printing storefront:
//   - Sessions: one per visitor, holding the analysis slot, quote desk and chat
//   - Analysis: model link in, printability report plus concept image out
//   - Quote: the contact panel draft and the email/WhatsApp links derived from it
//   - Pricing: local price estimate from filament grams and print hours
//   - Chat: streamed support replies over SSE or WebSocket
//   - Health monitoring and metrics
//
// All JSON responses share the envelope
//
//	{"success": true, "data": {...}, "timestamp": "...", "request_id": "..."}
//
// and failures carry {"error": {"code", "message", "retryable"}}.
//
// # Base URL
//
// The default base URL for the API is:
//
//	http://localhost:8080/api/v1
package api
