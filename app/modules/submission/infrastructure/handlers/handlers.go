// Package submissionhandlers transforms submission events into service calls
// and result events.
package submissionhandlers

import (
	submissionservice "github.com/clanworks/clanbot/app/modules/submission/application"
	"github.com/clanworks/clanbot/internal/handlerwrapper"
	"github.com/clanworks/clanbot/internal/results"
)

// SubmissionHandlers implements the Handlers interface for submission events.
type SubmissionHandlers struct {
	service submissionservice.Service
}

// NewSubmissionHandlers creates a new SubmissionHandlers instance.
func NewSubmissionHandlers(service submissionservice.Service) *SubmissionHandlers {
	return &SubmissionHandlers{service: service}
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
