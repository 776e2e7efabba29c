// Package memberapi holds the wire types of the membership service HTTP
// API plus a small Go client for it. The server handlers and the client
// share these types so the two cannot drift apart.
package memberapi
