package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "leetfeedback API",
		Version:     "v1",
		Description: "Spaced-repetition scheduling of practice problems",
		Endpoints: []endpointInfo{
			{"/api/v1/problems", []string{"GET", "PUT"}, "List problems (limit, offset, state) or replace the whole sequence"},
			{"/api/v1/problems/{index}", []string{"GET"}, "Single problem by position"},
			{"/api/v1/problems/{index}/ignore", []string{"POST"}, "Toggle the ignored flag"},
			{"/api/v1/problems/{index}/attempts", []string{"GET", "POST"}, "Attempt history; POST records an attempt"},
			{"/api/v1/schedule/today", []string{"GET"}, "Today's batch (count, mode, grandparent, parent_topic, where)"},
			{"/api/v1/stats", []string{"GET"}, "Problem counts by solved and ignored state"},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
		},
	})
}
