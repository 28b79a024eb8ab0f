package web

import "github.com/habedi/tixshell/auth"

// Access is the guard level of a route.
type Access int

const (
	Public Access = iota
	Authenticated
	Privileged
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case Privileged:
		return "ADMIN|ORGANIZER"
	default:
		return "unknown"
	}
}

// PrivilegedRoles may open Privileged routes.
var PrivilegedRoles = []string{auth.RoleAdmin, auth.RoleOrganizer}

// Route is one page of the shell.
type Route struct {
	Pattern string
	Title   string
	Access  Access
}

// Routes lists the pages the shell serves, in registration order.
// Static patterns come before parameterised ones sharing a prefix.
var Routes = []Route{
	{Pattern: "/", Title: "Home", Access: Public},
	{Pattern: "/events", Title: "Events", Access: Public},
	{Pattern: "/events/create", Title: "Create Event", Access: Privileged},
	{Pattern: "/events/{id}", Title: "Event Details", Access: Public},
	{Pattern: "/events/{id}/edit", Title: "Edit Event", Access: Privileged},
	{Pattern: "/login", Title: "Login", Access: Public},
	{Pattern: "/register", Title: "Register", Access: Public},
	{Pattern: "/profile", Title: "Profile", Access: Authenticated},
	{Pattern: "/my-tickets", Title: "My Tickets", Access: Authenticated},
	{Pattern: "/tickets/{id}", Title: "Ticket Details", Access: Authenticated},
	{Pattern: "/dashboard", Title: "Dashboard", Access: Privileged},
}

// NavItem is an entry of the navigation bar.
type NavItem struct {
	Label  string
	Href   string
	Access Access
}

var navItems = []NavItem{
	{Label: "Home", Href: "/", Access: Public},
	{Label: "Events", Href: "/events", Access: Public},
	{Label: "My Tickets", Href: "/my-tickets", Access: Authenticated},
	{Label: "Dashboard", Href: "/dashboard", Access: Privileged},
}

// Allows reports whether a session in state s may open a route with this access level.
func (a Access) Allows(s auth.State) bool {
	switch a {
	case Public:
		return true
	case Authenticated:
		return s.HasRole()
	case Privileged:
		return s.HasRole(PrivilegedRoles...)
	default:
		return false
	}
}

// Nav returns the navigation entries visible to s.
func Nav(s auth.State) []NavItem {
	var items []NavItem
	for _, item := range navItems {
		if item.Access.Allows(s) {
			items = append(items, item)
		}
	}
	return items
}
