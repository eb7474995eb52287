package common

// Persisted session record keys. These are fixed and versionless: the token
// and the serialized user are stored under the same two keys in whichever
// persistence scope the session was saved to.
const (
	TokenKey = "rootpulse_token"
	UserKey  = "rootpulse_user"
)
