// Package api implements the REST client for the EduLine backend and the
// request interceptor that keeps authorization failures invisible to
// callers whenever a token refresh can resolve them.
//
// The package deliberately owns no session state beyond the in-memory
// bearer credential: state transitions live in the session package, and the
// interceptor reaches back into it only through an injected RefreshFunc.
// All coordination state (refresh-in-flight flag, waiter queue) is scoped
// to an AuthTransport instance, never package-global, so independent
// clients — including test fixtures — cannot share hidden state.
package api
