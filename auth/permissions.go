package auth

import (
	"sort"

	"github.com/samber/lo"
)

type Capability string

const (
	ViewChats      Capability = "view_chats"
	CreateChat     Capability = "create_chat"
	SearchMessages Capability = "search_messages"
	ViewUsers      Capability = "view_users"
	RegisterUser   Capability = "register_user"
	ViewStatus     Capability = "view_status"
	ReloadLayout   Capability = "reload_layout"
)

// RootRole holds every capability whatever the layout says.
const RootRole = "root"

var AllCapabilities = []Capability{
	ViewChats, CreateChat, SearchMessages, ViewUsers, RegisterUser, ViewStatus, ReloadLayout,
}

func IsKnownCapability(c Capability) bool {
	return lo.Contains(AllCapabilities, c)
}

// Permissions maps a role to the capabilities it grants.
type Permissions struct {
	grants map[string]map[Capability]struct{}
}

func NewPermissions(roles map[string][]string) Permissions {
	grants := make(map[string]map[Capability]struct{}, len(roles))
	for role, caps := range roles {
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[Capability(c)] = struct{}{}
		}
		grants[role] = set
	}
	return Permissions{grants: grants}
}

// Allows reports whether role grants c. An empty capability is always allowed.
func (p Permissions) Allows(role string, c Capability) bool {
	if c == "" || role == RootRole {
		return true
	}
	_, ok := p.grants[role][c]
	return ok
}

// Roles lists the declared roles plus root, sorted.
func (p Permissions) Roles() []string {
	roles := lo.Uniq(append(lo.Keys(p.grants), RootRole))
	sort.Strings(roles)
	return roles
}

func (p Permissions) HasRole(role string) bool {
	if role == RootRole {
		return true
	}
	_, ok := p.grants[role]
	return ok
}
