// Package results defines the tagged operation result passed between
// application services and event handlers. Expected business outcomes travel
// in Success/Failure payloads; Error is reserved for infrastructure faults.
package results

// OperationResult carries the outcome of one service operation.
type OperationResult struct {
	Success any
	Failure any
	Error   error
}

// HandlerResult pairs an outgoing payload with the topic it publishes to.
type HandlerResult struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// MapToHandlerResults converts the result into outgoing handler results:
// a Success payload maps to successTopic, a Failure payload to failureTopic.
// Both may be produced when an operation partially succeeds.
func (r OperationResult) MapToHandlerResults(successTopic, failureTopic string) []HandlerResult {
	var out []HandlerResult
	if r.Success != nil {
		out = append(out, HandlerResult{Topic: successTopic, Payload: r.Success})
	}
	if r.Failure != nil {
		out = append(out, HandlerResult{Topic: failureTopic, Payload: r.Failure})
	}
	return out
}
