// Package policy decides whether a subject may perform an action on a
// resource. Every ownership and role check in the services goes through
// Evaluate so the rules live in one table.
package policy

import (
	"fmt"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type Subject struct {
	UserID uuid.UUID
	Role   Role
}

func (s Subject) IsAdmin() bool { return s.Role == RoleAdmin }

type Kind string

const (
	KindUser          Kind = "user"
	KindMeeting       Kind = "meeting"
	KindWorkReport    Kind = "work_report"
	KindMessage       Kind = "message"
	KindNotification  Kind = "notification"
	KindSponsorship   Kind = "sponsorship"
	KindActivityPoint Kind = "activity_point"
	KindExport        Kind = "export"
)

type Action string

const (
	ActionList    Action = "list"
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionSubmit  Action = "submit"
	ActionReview  Action = "review" // status, sharing and privacy of a report
	ActionAttend  Action = "mark_attendance"
	ActionRead    Action = "mark_read"
	ActionDecide  Action = "decide"
	ActionExport  Action = "export"
	ActionViewAll Action = "view_all"
)

// Resource identifies the target of an action. OwnerID is the owning user
// (report owner, sponsorship creator, notification recipient). Members are
// users with derived access: meeting participants, report share list,
// message sender and receiver.
type Resource struct {
	Kind    Kind
	OwnerID uuid.UUID
	Members []uuid.UUID
}

type Effect int

const (
	Deny Effect = iota
	Allow
)

type Decision struct {
	Effect Effect
	Reason string
}

func (d Decision) Allowed() bool { return d.Effect == Allow }

// Rule maps a subject and a resource to a decision.
type Rule func(Subject, Resource) Decision

func Authenticated(s Subject, _ Resource) Decision {
	if s.UserID == uuid.Nil {
		return Decision{Deny, "not authenticated"}
	}
	return Decision{Allow, "authenticated"}
}

func AdminOnly(s Subject, _ Resource) Decision {
	if s.IsAdmin() {
		return Decision{Allow, "admin"}
	}
	return Decision{Deny, "admin role required"}
}

func OwnerOnly(s Subject, r Resource) Decision {
	if r.OwnerID != uuid.Nil && s.UserID == r.OwnerID {
		return Decision{Allow, "owner"}
	}
	return Decision{Deny, "owner only"}
}

func OwnerOrAdmin(s Subject, r Resource) Decision {
	if s.IsAdmin() {
		return Decision{Allow, "admin"}
	}
	return OwnerOnly(s, r)
}

func MemberOnly(s Subject, r Resource) Decision {
	for _, id := range r.Members {
		if id == s.UserID {
			return Decision{Allow, "member"}
		}
	}
	return Decision{Deny, "not a member"}
}

func MemberOrAdmin(s Subject, r Resource) Decision {
	if s.IsAdmin() {
		return Decision{Allow, "admin"}
	}
	return MemberOnly(s, r)
}

// OwnerMemberOrAdmin covers reports: the owner, users it is shared with and
// admins may read it.
func OwnerMemberOrAdmin(s Subject, r Resource) Decision {
	if d := OwnerOrAdmin(s, r); d.Allowed() {
		return d
	}
	return MemberOnly(s, r)
}

type key struct {
	kind   Kind
	action Action
}

var rules = map[key]Rule{
	{KindUser, ActionList}:   AdminOnly,
	{KindUser, ActionView}:   AdminOnly,
	{KindUser, ActionCreate}: AdminOnly,
	{KindUser, ActionUpdate}: AdminOnly,
	{KindUser, ActionDelete}: AdminOnly,

	{KindMeeting, ActionList}:    Authenticated,
	{KindMeeting, ActionView}:    MemberOrAdmin,
	{KindMeeting, ActionViewAll}: AdminOnly,
	{KindMeeting, ActionCreate}:  AdminOnly,
	{KindMeeting, ActionUpdate}:  AdminOnly,
	{KindMeeting, ActionDelete}:  AdminOnly,
	{KindMeeting, ActionAttend}:  AdminOnly,

	{KindWorkReport, ActionList}:    Authenticated,
	{KindWorkReport, ActionViewAll}: AdminOnly,
	{KindWorkReport, ActionView}:    OwnerMemberOrAdmin,
	{KindWorkReport, ActionCreate}:  Authenticated,
	{KindWorkReport, ActionUpdate}:  OwnerOrAdmin,
	{KindWorkReport, ActionDelete}:  OwnerOrAdmin,
	{KindWorkReport, ActionSubmit}:  OwnerOnly,
	{KindWorkReport, ActionReview}:  AdminOnly,

	{KindMessage, ActionView}:   MemberOnly,
	{KindMessage, ActionDelete}: MemberOnly,
	{KindMessage, ActionRead}:   OwnerOnly,

	{KindNotification, ActionRead}:   OwnerOnly,
	{KindNotification, ActionDelete}: OwnerOnly,

	{KindSponsorship, ActionList}:   Authenticated,
	{KindSponsorship, ActionView}:   Authenticated,
	{KindSponsorship, ActionCreate}: Authenticated,
	{KindSponsorship, ActionUpdate}: Authenticated,
	{KindSponsorship, ActionDecide}: Authenticated,
	{KindSponsorship, ActionDelete}: OwnerOrAdmin,

	{KindActivityPoint, ActionList}:   Authenticated,
	{KindActivityPoint, ActionView}:   AdminOnly,
	{KindActivityPoint, ActionCreate}: AdminOnly,
	{KindActivityPoint, ActionUpdate}: AdminOnly,
	{KindActivityPoint, ActionDelete}: AdminOnly,

	{KindExport, ActionExport}: AdminOnly,
}

// Evaluate looks up the rule for (resource kind, action). Unknown pairs are
// denied.
func Evaluate(s Subject, a Action, r Resource) Decision {
	rule, ok := rules[key{r.Kind, a}]
	if !ok {
		return Decision{Deny, fmt.Sprintf("no rule for %s:%s", r.Kind, a)}
	}
	return rule(s, r)
}
