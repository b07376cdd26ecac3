package auth

import "golang.org/x/oauth2"

// Challenge is a PKCE verifier and its S256 challenge.
//
// The verifier stays on the client. Only the challenge is sent with the authorize request.
type Challenge struct {
	Verifier  string
	Challenge string
}

// NewChallenge generates a fresh verifier (32 random bytes, base64url, 43 characters) and its challenge.
func NewChallenge() Challenge {
	return ChallengeFor(oauth2.GenerateVerifier())
}

// ChallengeFor derives the S256 challenge for an existing verifier.
func ChallengeFor(verifier string) Challenge {
	return Challenge{
		Verifier:  verifier,
		Challenge: oauth2.S256ChallengeFromVerifier(verifier),
	}
}
