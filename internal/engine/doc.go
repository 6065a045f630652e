// Package engine provides the HTTP client for the StudioCommand playout
// engine API.
//
// # Overview
//
// The engine is the authoritative owner of the playout log, now-playing
// state, and producer roster. The console never mutates its own mirror
// of that state directly; every change goes through a command POST here
// followed by a fresh status poll.
//
// # Endpoints
//
//   - GET  /api/v1/status            full playout snapshot
//   - GET  /api/v1/meters            raw meter sample (fast-poll fallback)
//   - POST /api/v1/queue/reorder     complete upcoming-id sequence, strict
//   - POST /api/v1/queue/remove      drop an upcoming item by log index
//   - POST /api/v1/queue/insert      cart insert after a log index
//   - POST /api/v1/transport/{skip,dump,reload}
//   - POST /api/v1/webrtc/offer      SDP offer -> answer
//   - POST /api/v1/webrtc/candidate  trickle ICE
//
// # Error Taxonomy
//
// All failures are normalized at this boundary before any renderer sees
// them:
//
//   - network errors and JSON decode failures are wrapped with context
//   - non-2xx responses become *StatusError
//   - a 2xx response without a JSON content type becomes ErrNotJSON;
//     a proxy error page served with HTTP 200 is a transport failure,
//     not an empty snapshot
//
// Callers decide whether a failure is a transport error (mode
// downgrade), a command error (operator alert), or a signaling error
// (session teardown); this package only guarantees they never see a
// raw *http.Response.
package engine
