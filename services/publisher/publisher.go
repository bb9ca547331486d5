package publisher

// Publisher represents a service for publishing resolved announcements
type Publisher interface {
	// Publish publishes a message to the announcement stream
	Publish(message []byte) error

	// TrimStream trims the stream to the configured maximum length
	TrimStream() error

	// Close closes the publisher connection
	Close() error
}
