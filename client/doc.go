// Package client implements the consumer side of the token scheme: a
// persistent token store, a session guard that gates views on locally
// stored credentials, and an http.RoundTripper that attaches the token
// to outgoing requests and reacts to server side rejections.
//
// Everything here works on unverified token contents. The client never
// holds the signing secret, so its reads are user experience hints only;
// the server re-verifies every request.
package client
