package comms

import (
	"reflect"
)

// Messages used in conversation with a client
type Message struct {
	Type     string      `json:"type"`
	Contents interface{} `json:"contents,omitempty"`
}

// Convert message contents into a Message named after the contents' type
func ToMessage(contents interface{}) Message {
	t := reflect.TypeOf(contents)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return Message{
		Type:     t.Name(),
		Contents: contents,
	}
}

// Error returned to the client
type ErrorResponse struct {
	Reason string `json:"reason"`
}

type ErrorDecodingMessageResponse struct{}
