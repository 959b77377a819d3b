// Package api provides an HTTP client for the tarot reading backend.
//
// # Overview
//
// This package defines the client used to list spreads, request generated
// readings and look up cards. It handles HTTP communication through resty,
// JSON serialization, and type-safe representation of spreads, cards and
// readings.
//
// # Architecture
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the backend schema
//   - live.go: WebSocket client for the streamed live reading
//
// # Client Usage
//
//	client, err := api.NewClient("http://localhost:8000")
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	spreads, err := client.FetchSpreads(ctx)
//	reading, err := client.CreateReading(ctx, api.ReadingRequest{
//		Question:   "Will I find love?",
//		SpreadType: "three",
//		Language:   api.Language,
//	})
//
// # API Endpoints
//
//   - GET /api/spreads: spread catalog
//   - POST /api/reading: draw cards for a spread and interpret them
//   - GET /api/reading/{session_id}: a reading the backend still holds
//   - GET /api/cards, GET /api/cards/{id}: the deck
//   - GET /api/daily: card of the day
//   - GET /cards/{image}: card face images (see CardImageURL)
//   - WS /ws/live-reading: shuffle, draw and interpret as a stream of frames
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Set Accept: application/json and User-Agent: luvo/0.1
//   - Carry a fresh X-Request-ID so backend logs can be correlated
//   - Time out after 90 seconds unless WithTimeout says otherwise
//
// # Error Handling
//
//   - Network and decode errors: "execute request: ..."
//   - HTTP errors: *StatusError, "api /api/reading returned status 500"
//
// Response shapes are not validated beyond JSON decoding.
package api
