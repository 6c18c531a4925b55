// Package memberhandlers transforms member events into service calls and
// result events.
package memberhandlers

import (
	memberservice "github.com/clanworks/clanbot/app/modules/member/application"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
	"github.com/clanworks/clanbot/internal/results"
)

// MemberHandlers implements the Handlers interface for member events.
type MemberHandlers struct {
	service memberservice.Service
}

// NewMemberHandlers creates a new MemberHandlers instance.
func NewMemberHandlers(service memberservice.Service) *MemberHandlers {
	return &MemberHandlers{service: service}
}

// mapOperationResult converts a service OperationResult to handler Results.
func mapOperationResult(result results.OperationResult, successTopic, failureTopic string) []handlerwrapper.Result {
	handlerResults := result.MapToHandlerResults(successTopic, failureTopic)

	wrapperResults := make([]handlerwrapper.Result, len(handlerResults))
	for i, hr := range handlerResults {
		wrapperResults[i] = handlerwrapper.Result{
			Topic:    hr.Topic,
			Payload:  hr.Payload,
			Metadata: hr.Metadata,
		}
	}
	return wrapperResults
}
