package auth

import (
	"fmt"

	"github.com/carson-networks/tx-ledger/internal/ledger"
)

// AccessControl answers privilege questions about an identity.
type AccessControl interface {
	IsAdmin(identity ledger.Identity) bool
	Admin() ledger.Identity
}

// AdminRegistry holds the single administrator fixed at construction.
// There is no rotation.
type AdminRegistry struct {
	admin ledger.Identity
}

var _ AccessControl = (*AdminRegistry)(nil)

func NewAdminRegistry(admin ledger.Identity) (*AdminRegistry, error) {
	if admin.IsZero() {
		return nil, fmt.Errorf("%w: admin identity must be non-zero", ledger.ErrInvalidIdentifier)
	}
	return &AdminRegistry{admin: admin}, nil
}

func (r *AdminRegistry) IsAdmin(identity ledger.Identity) bool {
	return !identity.IsZero() && identity == r.admin
}

func (r *AdminRegistry) Admin() ledger.Identity {
	return r.admin
}

// CanManage reports whether caller may change a record owned by owner.
func CanManage(access AccessControl, caller, owner ledger.Identity) bool {
	if caller.IsZero() {
		return false
	}
	return caller == owner || access.IsAdmin(caller)
}
