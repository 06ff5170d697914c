package passes

// Event reports progress through the pipeline after a pass finishes (or
// fails), consumed by internal/ui to drive the bubbletea progress view.
type Event struct {
	Pass  string
	Index int
	Total int
	Err   error
}

// Sink receives Events as run_passes executes; implementations must not
// block the pipeline for long, since passes run synchronously between
// sends.
type Sink interface {
	Send(Event)
}

// ChannelSink forwards every Event onto a channel. Run never closes it;
// the caller calls Close once Run returns. Callers that don't drain the channel promptly will
// stall the pass manager.
type ChannelSink struct {
	ch chan Event
}

// NewChannelSink creates a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan Event, buffer)}
}

func (s *ChannelSink) Send(e Event) { s.ch <- e }

// Events returns the channel progress Events are delivered on.
func (s *ChannelSink) Events() <-chan Event { return s.ch }

// Close closes the underlying channel. Run does not call it; the caller
// does after Run returns (cmd/kratos's runPassesWithUI, for example).
func (s *ChannelSink) Close() { close(s.ch) }

// NopSink discards every Event; the default for library callers that
// don't drive a UI.
type NopSink struct{}

func (NopSink) Send(Event) {}
