package gate

import "strings"

// Action is the kind of operation requested on a resource type.
type Action string

const (
	ActionView    Action = "view"
	ActionList    Action = "list"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionArchive Action = "archive"
	ActionRestore Action = "restore"
)

// WildcardAll matches any resource type or any action.
const WildcardAll = "*"

// PermissionSuperAdmin grants every action on every resource type.
const PermissionSuperAdmin Permission = "*:*"

// Permission is a "resource:action" pair, e.g. "document:archive".
type Permission string

// NewPermission builds a permission from its two halves.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Parse splits the permission. Malformed values yield empty strings.
func (p Permission) Parse() (resourceType string, action Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return res, Action(act)
}

// Matches reports whether p grants requested.
// "*:*" grants everything and "personne:*" grants every personne action.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin || p == requested {
		return true
	}
	res, act := p.Parse()
	if res == "" {
		return false
	}
	reqRes, _ := requested.Parse()
	return res == reqRes && string(act) == WildcardAll
}
