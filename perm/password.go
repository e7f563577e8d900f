package perm

import (
	"golang.org/x/crypto/bcrypt"

	"atrium/store"
	"atrium/types"
)

// HashPassword hashes a plaintext password for storage in
// Player.PasswordHash, grounded on the teacher's crypt-variant dependency
// for player credentials (go-crypt/sergeymakinen-crypt), collapsed to the
// single bcrypt choice SPEC_FULL.md calls for rather than carrying two
// crypt algorithms for one concern.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", types.Wrap(types.ErrRuntime, "hash password", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the player's stored
// hash. A player with no PasswordHash set never authenticates.
func CheckPassword(p *store.Player, plaintext string) bool {
	if p == nil || p.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(plaintext)) == nil
}

// Login resolves objectID to a Player and checks plaintext against its
// stored hash, returning the §7 PermissionDenied kind on any mismatch
// (unknown object, non-player, or wrong password) so a caller can't
// distinguish "no such player" from "wrong password".
func Login(s *store.Store, objectID, plaintext string) error {
	p := PlayerOf(s, objectID)
	if !CheckPassword(p, plaintext) {
		return types.NewError(types.ErrPermissionDenied, "invalid login")
	}
	return nil
}

// LoginByName is the login builtin §6 says connection handlers call
// before dispatching anything: "login NAME PASSWORD" resolved against
// the player's owning object name rather than its internal id. It
// returns the player's object on success.
func LoginByName(s *store.Store, objects *store.Collection[*store.Object], name, plaintext string) (*store.Object, error) {
	p, ok := s.PlayerByName(objects, name)
	if !ok || !CheckPassword(p, plaintext) {
		return nil, types.NewError(types.ErrPermissionDenied, "invalid login")
	}
	obj, ok := objects.FindByID(p.ObjectID)
	if !ok {
		return nil, types.NewError(types.ErrStoreInconsistency, "player object missing for "+p.ObjectID)
	}
	return obj, nil
}
