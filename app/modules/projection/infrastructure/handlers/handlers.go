// Package projectionhandlers transforms rank-updated events into role
// projections.
package projectionhandlers

import (
	projectionservice "github.com/clanworks/clanbot/app/modules/projection/application"
)

// ProjectionHandlers implements the Handlers interface for projection events.
type ProjectionHandlers struct {
	service projectionservice.Service
}

// NewProjectionHandlers creates a new ProjectionHandlers instance.
func NewProjectionHandlers(service projectionservice.Service) *ProjectionHandlers {
	return &ProjectionHandlers{service: service}
}
