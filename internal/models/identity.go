package models

// IdentityState tracks where the device token is in its lifecycle
type IdentityState int

const (
	IdentityAbsent IdentityState = iota
	IdentityPending
	IdentityConfirmed
)

func (s IdentityState) String() string {
	switch s {
	case IdentityPending:
		return "pending"
	case IdentityConfirmed:
		return "confirmed"
	default:
		return "absent"
	}
}

// Identity is the anonymous per-device token. Only a confirmed identity
// carries a token that the service has accepted or issued.
type Identity struct {
	Token string
	State IdentityState
}

func (id Identity) Present() bool { return id.Token != "" }

func PendingIdentity(token string) Identity {
	if token == "" {
		return Identity{}
	}
	return Identity{Token: token, State: IdentityPending}
}

func ConfirmedIdentity(token string) Identity {
	if token == "" {
		return Identity{}
	}
	return Identity{Token: token, State: IdentityConfirmed}
}
