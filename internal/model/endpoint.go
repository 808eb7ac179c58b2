package model

import "strings"

// Welcome is the greeting returned by the API root.
type Welcome struct {
	Message string `json:"message"`
}

// Endpoint describes one route exposed by the API.
type Endpoint struct {
	Path    string   `json:"path"`
	Name    string   `json:"name"`
	Methods []string `json:"methods"`
}

// MethodList returns the methods joined for display, e.g. "GET, HEAD".
func (e Endpoint) MethodList() string {
	return strings.Join(e.Methods, ", ")
}

// EndpointList is the informational payload of the endpoints route.
type EndpointList struct {
	Message            string     `json:"message"`
	AvailableEndpoints []Endpoint `json:"available_endpoints"`
}
