package service

import (
	accountdomain "github.com/pmorel/tasklane/internal/account/domain"
	"github.com/pmorel/tasklane/internal/observability/metrics"
	taskdomain "github.com/pmorel/tasklane/internal/task/domain"
)

type ownership int

const (
	ownershipOK ownership = iota
	ownershipForbidden
)

// assertOwner is the single place a task's owner is compared against the
// resolved identity. Every mutation goes through it, after the existence
// check.
func assertOwner(identity accountdomain.Identity, task taskdomain.Task) ownership {
	if task.OwnerID != identity.AccountID {
		metrics.TaskOwnershipDenied.Inc()
		return ownershipForbidden
	}
	return ownershipOK
}
