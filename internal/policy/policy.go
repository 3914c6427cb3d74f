// Package policy holds the closed set of authorization checks applied before
// any course, module, lesson, enrollment or certificate operation.
package policy

import (
	"fmt"
	"slices"

	"github.com/coursehub/backend/internal/models"
)

// Action names the operation a principal attempts
type Action string

const (
	ActionCreate          Action = "create"
	ActionRead            Action = "read"
	ActionUpdate          Action = "update"
	ActionDelete          Action = "delete"
	ActionEnroll          Action = "enroll"
	ActionComplete        Action = "complete"
	ActionListEnrollments Action = "list_enrollments"
)

// Check is a single authorization predicate.
// The set is closed: only the checks in this package implement it.
type Check interface {
	evaluate(principal models.Principal, action Action) error
}

// RoleCheck passes when the principal has one of Roles
type RoleCheck struct {
	Roles []models.Role
}

func (c RoleCheck) evaluate(principal models.Principal, action Action) error {
	if slices.Contains(c.Roles, principal.Role) {
		return nil
	}
	return fmt.Errorf("%w: role %s cannot %s", models.ErrForbidden, principal.Role, action)
}

// OwnershipCheck passes when the principal is the (transitive) instructor of the resource.
// AllowAdmin lets administrators through as well.
type OwnershipCheck struct {
	OwnerID    int
	AllowAdmin bool
}

func (c OwnershipCheck) evaluate(principal models.Principal, action Action) error {
	if principal.UserID == c.OwnerID {
		return nil
	}
	if c.AllowAdmin && principal.IsAdmin() {
		return nil
	}
	return fmt.Errorf("%w: user %d does not own the course", models.ErrForbidden, principal.UserID)
}

// AvailabilityCheck passes when the course is published.
// Failure reads exactly like a missing course.
type AvailabilityCheck struct {
	Published bool
}

func (c AvailabilityCheck) evaluate(principal models.Principal, action Action) error {
	if c.Published {
		return nil
	}
	return models.ErrCourseNotAvailable
}

// EnrollActionCheck grants students the enroll action and nothing else
type EnrollActionCheck struct{}

func (EnrollActionCheck) evaluate(principal models.Principal, action Action) error {
	if action != ActionEnroll {
		return fmt.Errorf("%w: enroll permission does not cover %s", models.ErrForbidden, action)
	}
	if !principal.IsStudent() {
		return fmt.Errorf("%w: only students can enroll", models.ErrForbidden)
	}
	return nil
}

// Evaluate runs the checks in order and returns the first failure
func Evaluate(principal models.Principal, action Action, checks ...Check) error {
	for _, check := range checks {
		if err := check.evaluate(principal, action); err != nil {
			return err
		}
	}
	return nil
}

// Instructor is the check set for instructor-only actions on resources owned by ownerID
func Instructor(ownerID int) []Check {
	return []Check{
		RoleCheck{Roles: []models.Role{models.RoleInstructor}},
		OwnershipCheck{OwnerID: ownerID},
	}
}
