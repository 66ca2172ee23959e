package rbac

import "strings"

// Permission is a flat capability token. The vocabulary is closed: role
// documents may only grant strings enumerated here, and the rest of the
// system relies on the exact spelling.
type Permission string

// Menu permissions gate navigation entries and their route subtrees.
const (
	PermMenuDashboard      Permission = "menu:dashboard"
	PermMenuClients        Permission = "menu:clients"
	PermMenuProposals      Permission = "menu:proposals"
	PermMenuPipeline       Permission = "menu:pipeline"
	PermMenuTeams          Permission = "menu:teams"
	PermMenuRoles          Permission = "menu:roles"
	PermMenuUsers          Permission = "menu:users"
	PermMenuSettings       Permission = "menu:settings"
	PermMenuWebhooks       Permission = "menu:webhooks"
	PermMenuMyRegistration Permission = "menu:my_registration"
)

// Dashboard visibility.
const (
	PermViewDashboard     Permission = "view:dashboard"
	PermViewOwnDashboard  Permission = "view:own_dashboard"
	PermViewTeamDashboard Permission = "view:team_dashboard"
	PermViewAllDashboard  Permission = "view:all_dashboard"
)

// Client registrations.
const (
	PermViewClients     Permission = "view:clients"
	PermViewOwnClients  Permission = "view:own_clients"
	PermViewTeamClients Permission = "view:team_clients"
	PermViewAllClients  Permission = "view:all_clients"
	PermEditClients     Permission = "edit:clients"
	PermDeleteClients   Permission = "delete:clients"
)

// Credit proposals.
const (
	PermViewProposals     Permission = "view:proposals"
	PermViewOwnProposals  Permission = "view:own_proposals"
	PermViewTeamProposals Permission = "view:team_proposals"
	PermViewAllProposals  Permission = "view:all_proposals"
	PermEditProposals     Permission = "edit:proposals"
	PermApproveProposals  Permission = "approve:proposals"
	PermRejectProposals   Permission = "reject:proposals"
	PermDeleteProposals   Permission = "delete:proposals"
)

// Pipeline stages.
const (
	PermViewPipeline     Permission = "view:pipeline"
	PermViewOwnPipeline  Permission = "view:own_pipeline"
	PermViewTeamPipeline Permission = "view:team_pipeline"
	PermViewAllPipeline  Permission = "view:all_pipeline"
	PermEditPipeline     Permission = "edit:pipeline"
)

// Administration.
const (
	PermViewUsers          Permission = "view:users"
	PermEditUsers          Permission = "edit:users"
	PermDeleteUsers        Permission = "delete:users"
	PermViewSettings       Permission = "view:settings"
	PermEditSettings       Permission = "edit:settings"
	PermViewWebhooks       Permission = "view:webhooks"
	PermEditWebhooks       Permission = "edit:webhooks"
	PermViewMyRegistration Permission = "view:my_registration"
	PermViewProfile        Permission = "view:profile"
	PermEditProfile        Permission = "edit:profile"
	PermViewTeams          Permission = "view:teams"
	PermEditTeams          Permission = "edit:teams"
	PermDeleteTeams        Permission = "delete:teams"
	PermViewRoles          Permission = "view:roles"
	PermEditRoles          Permission = "edit:roles"
	PermDeleteRoles        Permission = "delete:roles"
)

// Resource names a record type subject to scoped visibility.
type Resource string

const (
	ResourceDashboard Resource = "dashboard"
	ResourceClients   Resource = "clients"
	ResourceProposals Resource = "proposals"
	ResourcePipeline  Resource = "pipeline"
)

// coarseVariants maps a coarse view permission to its scoped variants. A
// coarse check passes when the role holds the coarse string itself or any
// variant; users often hold only a scoped grant.
var coarseVariants = map[Permission][]Permission{
	PermViewDashboard: {PermViewOwnDashboard, PermViewTeamDashboard, PermViewAllDashboard},
	PermViewClients:   {PermViewOwnClients, PermViewTeamClients, PermViewAllClients},
	PermViewProposals: {PermViewOwnProposals, PermViewTeamProposals, PermViewAllProposals},
}

// scopePermissions orders each resource's scoped grants by breadth. The
// order is the resolution priority: all beats team beats own.
var scopePermissions = map[Resource][]Permission{
	ResourceDashboard: {PermViewAllDashboard, PermViewTeamDashboard, PermViewOwnDashboard},
	ResourceClients:   {PermViewAllClients, PermViewTeamClients, PermViewOwnClients},
	ResourceProposals: {PermViewAllProposals, PermViewTeamProposals, PermViewOwnProposals},
	ResourcePipeline:  {PermViewAllPipeline, PermViewTeamPipeline, PermViewOwnPipeline},
}

// RouteRequirements maps route prefixes (at most the first two path
// segments) to the permission required to enter them. Routes with no entry
// require nothing.
var RouteRequirements = map[string]Permission{
	"/dashboard":       PermMenuDashboard,
	"/clients":         PermMenuClients,
	"/clients/new":     PermEditClients,
	"/clients/edit":    PermEditClients,
	"/proposals":       PermMenuProposals,
	"/proposals/new":   PermEditProposals,
	"/proposals/edit":  PermEditProposals,
	"/pipeline":        PermMenuPipeline,
	"/teams":           PermMenuTeams,
	"/roles":           PermMenuRoles,
	"/users":           PermMenuUsers,
	"/settings":        PermMenuSettings,
	"/webhooks":        PermMenuWebhooks,
	"/my-registration": PermMenuMyRegistration,
	"/profile":         PermViewProfile,
}

// RequiredForRoute derives the lookup key from the first two path segments
// and returns the required permission, or "" when the route is unguarded.
func RequiredForRoute(path string) Permission {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return ""
	}
	if len(segments) > 2 {
		segments = segments[:2]
	}
	return RouteRequirements["/"+strings.Join(segments, "/")]
}

// AllPermissions enumerates the full catalog, for role editors and seeders.
func AllPermissions() []Permission {
	return []Permission{
		PermMenuDashboard, PermMenuClients, PermMenuProposals, PermMenuPipeline,
		PermMenuTeams, PermMenuRoles, PermMenuUsers, PermMenuSettings,
		PermMenuWebhooks, PermMenuMyRegistration,
		PermViewDashboard, PermViewOwnDashboard, PermViewTeamDashboard, PermViewAllDashboard,
		PermViewClients, PermViewOwnClients, PermViewTeamClients, PermViewAllClients,
		PermEditClients, PermDeleteClients,
		PermViewProposals, PermViewOwnProposals, PermViewTeamProposals, PermViewAllProposals,
		PermEditProposals, PermApproveProposals, PermRejectProposals, PermDeleteProposals,
		PermViewPipeline, PermViewOwnPipeline, PermViewTeamPipeline, PermViewAllPipeline,
		PermEditPipeline,
		PermViewUsers, PermEditUsers, PermDeleteUsers,
		PermViewSettings, PermEditSettings,
		PermViewWebhooks, PermEditWebhooks,
		PermViewMyRegistration, PermViewProfile, PermEditProfile,
		PermViewTeams, PermEditTeams, PermDeleteTeams,
		PermViewRoles, PermEditRoles, PermDeleteRoles,
	}
}

var catalogSet = func() map[Permission]struct{} {
	set := make(map[Permission]struct{})
	for _, p := range AllPermissions() {
		set[p] = struct{}{}
	}
	return set
}()

// Known reports whether the permission is part of the closed vocabulary.
func Known(p Permission) bool {
	_, ok := catalogSet[p]
	return ok
}
