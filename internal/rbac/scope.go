package rbac

// Scope is the visibility tier a role resolves to for a resource.
type Scope string

const (
	// ScopeNone means the role may not see the resource at all.
	ScopeNone Scope = ""
	// ScopeOwn limits visibility to records the actor owns.
	ScopeOwn Scope = "own"
	// ScopeTeam extends visibility to records of the actor's team.
	ScopeTeam Scope = "team"
	// ScopeAll grants unrestricted visibility.
	ScopeAll Scope = "all"
)
