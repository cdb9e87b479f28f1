package execution

import (
	"strings"

	copilot "github.com/github/copilot-sdk/go"
)

const sessionFailedUnknown = "session failed with unknown error"

// replyCollector accumulates assistant text from session events.
type replyCollector struct {
	outputParts []string
	errorMsg    string
	done        chan struct{}
}

func newReplyCollector() *replyCollector {
	return &replyCollector{done: make(chan struct{})}
}

// On is a callback, intended to be passed to [copilot.Session.On] to receive
// events in real-time.
func (c *replyCollector) On(event copilot.SessionEvent) {
	switch event.Type {
	case copilot.AssistantMessage:
		if event.Data.Content != nil {
			c.outputParts = append(c.outputParts, *event.Data.Content)
		}

	// these are both termination events
	case copilot.SessionIdle, copilot.SessionError:
		if event.Type == copilot.SessionError {
			if event.Data.Message == nil || *event.Data.Message == "" {
				c.errorMsg = sessionFailedUnknown
			} else {
				c.errorMsg = *event.Data.Message
			}
		}

		select {
		case <-c.done:
		default:
			close(c.done)
		}
	}
}

// Text joins the assistant messages in arrival order.
func (c *replyCollector) Text() string {
	return strings.Join(c.outputParts, "")
}

// ErrorMessage returns the session error, if any.
func (c *replyCollector) ErrorMessage() string {
	return c.errorMsg
}

// Done is closed when the session goes idle or fails.
func (c *replyCollector) Done() <-chan struct{} {
	return c.done
}
