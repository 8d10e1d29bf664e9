package reconcile

import (
	"fmt"

	"github.com/yuriy-kovalchuk/yk-pdns-reconciler/internal/dns"
)

// TypeMismatchError aborts a reconciliation when a wanted value and the live
// value for the same key have incompatible kinds.
type TypeMismatchError struct {
	Key  string
	Want dns.Kind
	Have dns.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("comparison of values with different types is not supported: %q wants %s, has %s", e.Key, e.Want, e.Have)
}

// PreconditionError reports that a mutation targets a zone that does not
// exist; no call is made.
type PreconditionError struct {
	Zone string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("Failed to patch: zone %q does not exist", e.Zone)
}

// DuplicateRRSetError reports two desired rrsets with the same name and type.
type DuplicateRRSetError struct {
	Key string
}

func (e *DuplicateRRSetError) Error() string {
	return fmt.Sprintf("duplicate rrset %s in desired state", e.Key)
}
