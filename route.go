package outpost

import "strings"

// A RouteDescriptor is a route the catalog declares as available for navigation.
//
// Name is the route's address fragment; if it does not begin with "/" it is rooted at "/".
// ComponentPath locates the view implementing the route, relative to a views root.
type RouteDescriptor struct {
	ID            *uint   `json:"id"`
	Name          string  `json:"name"`
	ComponentPath string  `json:"componentPath"`
	NeedAuth      bool    `json:"needAuth"`
	RoleName      *string `json:"roleName"`
}

// Path returns the Name rooted at "/".
//
//	"admin"  => "/admin"
//	"/admin" => "/admin"
func (rd RouteDescriptor) Path() string {
	if strings.HasPrefix(rd.Name, "/") {
		return rd.Name
	}

	return "/" + rd.Name
}

// Template translates Path into a gorilla/mux path template,
// converting ":param" segments into "{param}" segments.
//
//	"/sprites/:name" => "/sprites/{name}"
func (rd RouteDescriptor) Template() string {
	segs := strings.Split(rd.Path(), "/")
	for i, seg := range segs {
		if len(seg) > 1 && seg[0] == ':' {
			segs[i] = "{" + seg[1:] + "}"
		}
	}

	return strings.Join(segs, "/")
}

// Role returns the role name required by the route or an empty string.
func (rd RouteDescriptor) Role() string {
	if rd.RoleName == nil {
		return ""
	}

	return *rd.RoleName
}

// Valid asserts the RouteDescriptor can be registered.
func (rd RouteDescriptor) Valid() error {
	if strings.TrimSpace(rd.Name) == "" || strings.TrimSpace(rd.Name) == "/" {
		return ErrNotValid
	}

	return nil
}
