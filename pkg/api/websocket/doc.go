// Package websocket provides real-time event streaming via WebSocket.
//
// Clients can connect to /api/v1/traffic/:endpoint/ws to receive fetch
// events for that endpoint as they happen.
package websocket
