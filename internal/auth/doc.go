// Package auth implements the client side of the OAuth 2.0 authorization code flow with PKCE.
//
// A [Broker] owns one login session and moves through the [State] machine:
//
//	Unauthenticated → AwaitingCode → Exchanging → Authenticated
//	                               ↘ Failed     ↙
//
// [Broker.BeginLogin] mints a verifier, persists it in a [VerifierStore] and sends the user to the
// authorize URL, which carries only the S256 challenge. [Broker.CompleteLogin] reads the verifier back
// and trades it together with the authorization code for a [Credential] through an [Exchanger].
//
// Two exchangers exist:
//   - [BackendExchanger] posts {code, code_verifier} to a trusted backend that holds the client secret.
//   - [DirectExchanger] exchanges against the provider token endpoint as a public client.
//
// The verifier slot is durable when the store is a repositories.AuthStateRepository, so `auth login`
// and `auth complete` may run as separate processes.
package auth
