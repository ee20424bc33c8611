// Package security binds server-side sessions to requests and renders the
// "not authorized" page.
//
// Start loads the session named by the signed session cookie, or creates a
// new one and queues its cookie on the response state. Service implements
// response.SessionRecorder, so the close sequence of every request writes the
// SessionTail and persists the session through it.
package security
