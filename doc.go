// Package notes is the Composition Root for the notes client.
//
// It connects the token store, the HTTP client, the API facade and the auth
// guard with a storage adapter chosen at runtime.
//
// Features:
//
//   - **Pluggable session storage**: memory, a local JSON file (default), Redis or MongoDB via `core.Store`.
//   - **Interceptors**: ordered request and response hooks on every API call.
//   - **Typed errors**: non-2xx responses and transport failures surface as `*core.Error`.
//   - **Auth guard**: expired access tokens are refreshed once, even under concurrent checks.
//
// Usage:
//
//	// Initialize a session with functional options
//	s, err := notes.New(ctx,
//		notes.WithBaseURL("http://localhost:8000"),
//		notes.WithLogger(logger),
//	)
//
//	// Log in and list notes
//	_, err = s.API.Login(ctx, core.LoginRequest{Username: "alice", Password: "secret"})
//	list, err := s.API.Notes(ctx)
package notes
