// Package auth holds the pure authorization rules. Every function takes
// already-fetched entities and performs no I/O; handlers fetch, rules
// decide.
package auth

import "metra-backend/internal/domain"

// CanRegisterAccount reports whether a user account may be registered
// against the agent found for the registration email. Only premium agents
// may back an account.
func CanRegisterAccount(agent *domain.Agent) bool {
	return agent != nil && agent.IsPremium
}

// CanCreateProperty reports whether the user may create listings. Only
// premium-backed accounts (those linked to an agent) can.
func CanCreateProperty(user *domain.User) bool {
	return user != nil && user.AgentID != nil
}

// CanMutateProperty reports whether the user owns the listing.
func CanMutateProperty(user *domain.User, property *domain.Property) bool {
	return user != nil && property != nil && property.UserID == user.ID
}

// CanLogin reports whether the user may open a session: the account must be
// linked to an agent that is premium right now. Premium is re-checked at
// every login, independent of the registration-time check, since the flag
// may have been revoked since. Credential verification happens before this
// rule is consulted.
func CanLogin(user *domain.User, agent *domain.Agent) bool {
	return user != nil && user.AgentID != nil && agent != nil && agent.IsPremium
}
