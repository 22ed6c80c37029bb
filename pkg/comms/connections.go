package comms

import (
	"sync"

	"github.com/gorilla/websocket"
)

// ConnectionWrapper wraps a client connection, handling communication.
// Writes go through WriteChannel so only the write pump touches the socket for writing.
type ConnectionWrapper struct {
	Socket       *websocket.Conn
	WriteChannel chan Message
	SessionID    string

	closeOnce sync.Once
	done      chan struct{}
}

func NewConnectionWrapper(socket *websocket.Conn) *ConnectionWrapper {
	return &ConnectionWrapper{
		Socket:       socket,
		WriteChannel: make(chan Message, 16),
		done:         make(chan struct{}),
	}
}

func (c *ConnectionWrapper) ReadMessage() (Message, error) {
	var message Message
	err := c.Socket.ReadJSON(&message)
	return message, err
}

func (c *ConnectionWrapper) WriteMessage(message Message) error {
	return c.Socket.WriteJSON(message)
}

// Send queues a message for the write pump, dropping it if the connection is closed.
func (c *ConnectionWrapper) Send(message Message) {
	select {
	case c.WriteChannel <- message:
	case <-c.done:
	}
}

// WritePump writes queued messages until the connection is closed or a write fails.
func (c *ConnectionWrapper) WritePump(onError func(error)) {
	for {
		select {
		case message := <-c.WriteChannel:
			if err := c.WriteMessage(message); err != nil {
				if onError != nil {
					onError(err)
				}
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *ConnectionWrapper) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.Socket.Close()
	})
}
