// Package authz decides which caller may do what to which report.
//
// Decisions are pure functions of the caller's Identity, the requested
// Operation and, for single-report operations, the Target looked up by the
// caller. Nothing in this package touches storage.
package authz

import (
	"errors"

	"crowdsight/internal/model"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden: user does not have permission for this action")
	ErrNotFound        = errors.New("report not found")
	ErrValidation      = errors.New("validation error")
)

// Identity is the resolved caller of a request
type Identity struct {
	ID            int64
	Email         string
	Role          model.Role
	authenticated bool
}

func Anonymous() Identity {
	return Identity{}
}

func Authenticated(id int64, email string, role model.Role) Identity {
	return Identity{ID: id, Email: email, Role: role, authenticated: true}
}

func (i Identity) IsAuthenticated() bool {
	return i.authenticated
}

func (i Identity) IsAdmin() bool {
	return i.authenticated && i.Role.IsAdmin()
}

type Operation int

const (
	CreateReport Operation = iota + 1
	ListReports
	DeleteReport
	UpdateStatus
	AdminListAll
	AdminDeleteAny
	AdminUpdateStatus
)

var operationNames = map[Operation]string{
	CreateReport:      "create_report",
	ListReports:       "list_reports",
	DeleteReport:      "delete_report",
	UpdateStatus:      "update_status",
	AdminListAll:      "admin_list_all",
	AdminDeleteAny:    "admin_delete_any",
	AdminUpdateStatus: "admin_update_status",
}

func (o Operation) String() string {
	if n, ok := operationNames[o]; ok {
		return n
	}
	return "unknown"
}

// requiresAdmin lists the operations gated on role alone
func (o Operation) requiresAdmin() bool {
	switch o {
	case UpdateStatus, AdminListAll, AdminDeleteAny, AdminUpdateStatus:
		return true
	}
	return false
}

type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnauthenticated
	ReasonForbidden
	ReasonNotFound
	ReasonValidation
)

func (r Reason) String() string {
	switch r {
	case ReasonUnauthenticated:
		return "unauthenticated"
	case ReasonForbidden:
		return "forbidden"
	case ReasonNotFound:
		return "not_found"
	case ReasonValidation:
		return "validation_error"
	}
	return "none"
}

// Decision is the outcome of an authorization check
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision { return Decision{Allowed: true} }

func deny(r Reason) Decision { return Decision{Reason: r} }

// Err returns nil for an allow and the sentinel matching the reason otherwise
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return ErrUnauthenticated
	case ReasonNotFound:
		return ErrNotFound
	case ReasonValidation:
		return ErrValidation
	}
	return ErrForbidden
}

// Target is the state of the report an operation is aimed at.
// A nil *Target means the report does not exist.
type Target struct {
	OwnerID *int64
	Status  model.ReportStatus
}

func TargetOf(r *model.Report) *Target {
	if r == nil {
		return nil
	}
	return &Target{OwnerID: r.OwnerID, Status: r.Status}
}

// Check evaluates the identity-only part of the rules. Single-report
// operations must additionally pass CheckTarget once the report is loaded.
func Check(id Identity, op Operation) Decision {
	if !id.IsAuthenticated() {
		return deny(ReasonUnauthenticated)
	}
	switch op {
	case CreateReport, ListReports, DeleteReport:
		return allow()
	}
	if op.requiresAdmin() && id.Role.IsAdmin() {
		return allow()
	}
	return deny(ReasonForbidden)
}

// CheckTarget evaluates all rules for a single-report operation: identity
// first, then existence, then ownership. Role precedes ownership, so a
// non-admin is refused a status change even on a report they own.
func CheckTarget(id Identity, op Operation, target *Target) Decision {
	if d := Check(id, op); !d.Allowed {
		return d
	}
	if target == nil {
		return deny(ReasonNotFound)
	}
	if op == DeleteReport && !ownedBy(target, id) {
		return deny(ReasonForbidden)
	}
	return allow()
}

func ownedBy(t *Target, id Identity) bool {
	return t.OwnerID != nil && *t.OwnerID == id.ID
}

// Visibility restricts which reports a listing may return. A nil OwnerID
// places no restriction.
type Visibility struct {
	OwnerID *int64
}

// Scope returns the visibility predicate for a list operation
func Scope(id Identity, op Operation) (Visibility, Decision) {
	if op != ListReports && op != AdminListAll {
		return Visibility{}, deny(ReasonForbidden)
	}
	if d := Check(id, op); !d.Allowed {
		return Visibility{}, d
	}
	if op == AdminListAll {
		return Visibility{}, allow()
	}
	owner := id.ID
	return Visibility{OwnerID: &owner}, allow()
}

// Apply combines the visibility predicate with caller-supplied filters
func (v Visibility) Apply(f model.ReportFilters) model.ReportQuery {
	return model.ReportQuery{ReportFilters: f, OwnerID: v.OwnerID}
}
