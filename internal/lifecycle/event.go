package lifecycle

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/cfn"

	"github.com/imamik/searchprov/internal/request"
)

// Event is a custom resource invocation. The resource properties are kept
// as raw JSON so structured request bodies keep their key order.
type Event struct {
	cfn.Event

	rawProperties json.RawMessage
}

// NewEvent wraps an already decoded event.
func NewEvent(ev cfn.Event) Event {
	return Event{Event: ev}
}

func (e *Event) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &e.Event); err != nil {
		return err
	}
	var aux struct {
		ResourceProperties json.RawMessage `json:"ResourceProperties"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.rawProperties = aux.ResourceProperties
	return nil
}

// Runs reports whether the event type triggers provisioning.
func (e *Event) Runs() bool {
	return e.RequestType == cfn.RequestCreate || e.RequestType == cfn.RequestUpdate
}

// Properties are the custom resource properties this handler understands.
// The list is read from "requests"; the legacy "Requests" key matches too.
type Properties struct {
	Requests []request.Descriptor `json:"requests"`
}

// Properties decodes the resource properties. Missing properties yield an
// empty request list.
func (e *Event) Properties() (*Properties, error) {
	raw := e.rawProperties
	if len(raw) == 0 && e.ResourceProperties != nil {
		b, err := json.Marshal(e.ResourceProperties)
		if err != nil {
			return nil, fmt.Errorf("failed to encode resource properties: %w", err)
		}
		raw = b
	}

	var props Properties
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &props, nil
	}
	if err := json.Unmarshal(trimmed, &props); err != nil {
		return nil, fmt.Errorf("failed to decode resource properties: %w", err)
	}
	return &props, nil
}
