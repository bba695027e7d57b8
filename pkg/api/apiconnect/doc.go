// Package apiconnect wires the api messages to Connect handlers and clients.
//
// Procedures are named /ecosplit.v1.<Service>/<Method>. Every handler and client
// built here uses api.Codec, so requests and responses are plain JSON.
package apiconnect
