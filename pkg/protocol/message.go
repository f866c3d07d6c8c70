package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/narrative/pkg/scheme"
)

// Type discriminates boundary messages.
type Type string

const (
	// Authoring side -> host.
	TypeCreateScheme Type = "create-scheme"
	TypeCommand      Type = "command"
	TypeSubscribe    Type = "subscribe"
	TypeUpdateStore  Type = "update-store"

	// Host -> authoring side.
	TypeCommandResponse Type = "command-response"
	TypeEvent           Type = "event"
)

// Message is the single envelope exchanged across the boundary. Which fields
// are set depends on Type:
//
//	create-scheme     Scheme
//	command           CommandClass, Params
//	subscribe         Event
//	update-store      Data
//	command-response  Error (absent on success)
//	event             Event, Payload
type Message struct {
	Type         Type           `json:"type"`
	Scheme       *scheme.Scheme `json:"scheme,omitempty"`
	CommandClass string         `json:"commandClass,omitempty"`
	Params       any            `json:"params,omitempty"`
	Event        string         `json:"event,omitempty"`
	Payload      any            `json:"payload,omitempty"`
	Data         any            `json:"data,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// CreateScheme builds a create-scheme message. The scheme must already be externalized.
func CreateScheme(s *scheme.Scheme) Message {
	return Message{Type: TypeCreateScheme, Scheme: s}
}

// Command builds a command message.
func Command(class string, params any) Message {
	return Message{Type: TypeCommand, CommandClass: class, Params: params}
}

// Subscribe builds a subscribe message for one event kind.
func Subscribe(event string) Message {
	return Message{Type: TypeSubscribe, Event: event}
}

// UpdateStore builds an update-store message.
func UpdateStore(data any) Message {
	return Message{Type: TypeUpdateStore, Data: data}
}

// Response builds a command-response message. A nil err means success.
func Response(err error) Message {
	msg := Message{Type: TypeCommandResponse}
	if err != nil {
		msg.Error = err.Error()
	}
	return msg
}

// Event builds an event message.
func Event(kind string, payload any) Message {
	return Message{Type: TypeEvent, Event: kind, Payload: payload}
}

// Encode serializes a message. It fails if the message still carries an
// inline callback.
func Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", msg.Type, err)
	}
	return data, nil
}

// Decode parses a message.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if msg.Type == "" {
		return Message{}, fmt.Errorf("decode message: missing type")
	}
	return msg, nil
}
