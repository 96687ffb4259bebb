package core

import (
	"sync"
	"time"
)

// GameSpyService is the chat/matchmaking service handed off after a NAS login.
const GameSpyService = "gamespy"

// ServiceCredential grants one user access to one downstream service.
type ServiceCredential struct {
	UserID     string
	Service    string
	AuthToken  string
	Challenge  string
	BranchCode string
	IssuedAt   time.Time
}

type credentialKey struct {
	user    string
	service string
}

// CredentialIssuer mints service credentials and keeps them in memory.
// A new credential for a (user, service) pair replaces the previous one.
type CredentialIssuer struct {
	mu         sync.RWMutex
	byKey      map[credentialKey]ServiceCredential
	challenges map[string]struct{}
	now        func() time.Time
}

// NewCredentialIssuer returns an issuer that generates a challenge for the listed services.
func NewCredentialIssuer(challengeServices ...string) *CredentialIssuer {
	set := make(map[string]struct{}, len(challengeServices))
	for _, s := range challengeServices {
		set[s] = struct{}{}
	}
	return &CredentialIssuer{
		byKey:      make(map[credentialKey]ServiceCredential),
		challenges: set,
		now:        time.Now,
	}
}

// CreateServiceSession issues a credential for user on service. The service
// name is not validated here.
func (i *CredentialIssuer) CreateServiceSession(user User, service, branchCode string) ServiceCredential {
	cred := ServiceCredential{
		UserID:     user.ID,
		Service:    service,
		AuthToken:  newAuthToken(),
		BranchCode: branchCode,
		IssuedAt:   i.now().UTC(),
	}
	if _, ok := i.challenges[service]; ok {
		cred.Challenge = newChallenge()
	}

	key := credentialKey{user: userKey(user.ID), service: service}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.byKey[key] = cred
	return cred
}

// Credential returns the current credential for a user and service.
func (i *CredentialIssuer) Credential(userID, service string) (ServiceCredential, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	cred, ok := i.byKey[credentialKey{user: userKey(userID), service: service}]
	return cred, ok
}
