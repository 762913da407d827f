package shared

import "context"

// Credential is the bearer credential supplied by the authentication
// collaborator. It is threaded through context explicitly; nothing in this
// module stores or validates it.
type Credential struct {
	Token   string
	ActorID int64
}

type credentialContextKey struct{}

// ContextWithCredential stores the credential in context.
func ContextWithCredential(ctx context.Context, cred Credential) context.Context {
	return context.WithValue(ctx, credentialContextKey{}, cred)
}

// CredentialFromContext extracts the credential from context.
func CredentialFromContext(ctx context.Context) (Credential, bool) {
	cred, ok := ctx.Value(credentialContextKey{}).(Credential)
	return cred, ok
}
