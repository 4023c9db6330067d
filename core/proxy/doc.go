// Package proxy implements the client side of the reverse proxy's control
// protocol: a synchronous, correlated request/response exchange over the
// proxy's unix command socket.
//
// Messages travel as length-prefixed JSON frames. Each outbound Envelope
// carries a unique request id and exactly one Command; the proxy answers with
// zero or more Answer frames echoing that id, ending with a terminal OK or
// ERROR status. The Channel is strictly blocking and supports a single
// outstanding request at a time — there is no pipelining and no read deadline,
// matching the proxy's command-socket semantics.
//
// # Types
//
//   - Command: closed set of proxy mutation intents (routes, backends, certificates)
//   - Envelope: id + command, the unit sent to the proxy
//   - Answer: id + status + message, the unit received from the proxy
//   - Channel: framed codec over the command-socket connection
//
// # Errors
//
//   - ErrConnectionFailed: command socket unreachable
//   - ErrChannelClosed: transport closed while reading
//   - ErrFrameTooLarge: inbound frame exceeds the configured limit
//   - ErrInvalidFrame: inbound frame is not a valid Answer
package proxy
