package interfaces

// CredentialSink is the outgoing request layer's credential attachment point.
// The session store arms it on authentication and clears it on logout.
type CredentialSink interface {
	SetBearer(token string)
	ClearBearer()
}
