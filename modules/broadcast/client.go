package broadcast

// Client is a connection registered with the hub. The transport drains
// Send and writes each frame to the network.
type Client struct {
	ID   string
	send chan []byte

	// rooms is owned by the hub loop.
	rooms map[string]struct{}
}

// NewClient creates a client whose send queue holds up to buffer frames.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = DefaultClientBuffer
	}
	return &Client{
		ID:    id,
		send:  make(chan []byte, buffer),
		rooms: make(map[string]struct{}),
	}
}

// Send returns the client's outbound frame queue. It is closed when the
// client is unregistered or the hub stops.
func (c *Client) Send() <-chan []byte {
	return c.send
}
