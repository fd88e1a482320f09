package services

import (
	"encoding/hex"
	"strconv"
	"strings"

	"isitjustme/internal/models"

	"golang.org/x/crypto/blake2b"
)

// VoterIdentity is exactly one voter: a registered user or an anonymous
// fingerprint. Build it with Registered, Anonymous or ResolveIdentity.
type VoterIdentity struct {
	Kind        models.VoterKind
	UserID      uint
	AnonymousID string
}

func Registered(userID uint) VoterIdentity {
	return VoterIdentity{Kind: models.VoterUser, UserID: userID}
}

func Anonymous(fingerprint string) VoterIdentity {
	return VoterIdentity{Kind: models.VoterAnonymous, AnonymousID: fingerprint}
}

// ResolveIdentity picks the acting voter for one request. An explicit
// anonymous id wins over the session user so a signed-in client can still
// vote anonymously; with neither present the vote is rejected.
func ResolveIdentity(sessionUserID uint, anonymousID string) (VoterIdentity, error) {
	if fp := strings.TrimSpace(anonymousID); fp != "" {
		return Anonymous(fp), nil
	}
	if sessionUserID != 0 {
		return Registered(sessionUserID), nil
	}
	return VoterIdentity{}, models.NewIdentityRequiredError()
}

func (v VoterIdentity) valid() bool {
	switch v.Kind {
	case models.VoterUser:
		return v.UserID != 0
	case models.VoterAnonymous:
		return strings.TrimSpace(v.AnonymousID) != ""
	}
	return false
}

// ballotKey is the voter part of the unique ballot index. Fingerprints are
// opaque and unbounded, so they are stored as a fixed-size digest.
func (v VoterIdentity) ballotKey() string {
	if v.Kind == models.VoterUser {
		return strconv.FormatUint(uint64(v.UserID), 10)
	}
	sum := blake2b.Sum256([]byte(v.AnonymousID))
	return hex.EncodeToString(sum[:])
}

// String is safe for logs: it never prints the raw fingerprint.
func (v VoterIdentity) String() string {
	if v.Kind == models.VoterUser {
		return "user:" + strconv.FormatUint(uint64(v.UserID), 10)
	}
	return "anon:" + v.ballotKey()[:12]
}
