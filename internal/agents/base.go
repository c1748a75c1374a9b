// Package agents provides the six agent variants of the flood response
// model. Each agent owns its mailbox and private state; ProcessInbox is the
// only place an agent mutates its domain state.
package agents

import (
	"github.com/talgya/flood-response/internal/domain"
)

// Agent is the uniform entry point the step driver works with.
type Agent interface {
	Name() string
	Role() domain.Role
	Receive(msg domain.Message)
	ProcessInbox(step int)
}

// Receiver is anything that can accept a message.
type Receiver interface {
	Name() string
	Receive(msg domain.Message)
}

// Base carries the mailbox, readiness and metric state common to every
// agent variant.
type Base struct {
	name string
	role domain.Role

	inbox  []domain.Message
	outbox []domain.Message

	busyUntil int

	completed     int
	responseTimes []int
	meanResponse  float64
}

// NewBase initializes the shared agent state.
func NewBase(name string, role domain.Role) Base {
	return Base{name: name, role: role}
}

func (b *Base) Name() string      { return b.name }
func (b *Base) Role() domain.Role { return b.role }

// Capability is the dispatch default: roles without a capability rating
// contribute nothing to priority scores. Response teams override this.
func (b *Base) Capability() float64 { return 0 }

// Available is the dispatch default: roles without an availability notion
// never collect the availability bonus. Response teams override this.
func (b *Base) Available() bool { return false }

// Receive appends to the inbox. Pure append; all consumption happens in
// ProcessInbox.
func (b *Base) Receive(msg domain.Message) {
	b.inbox = append(b.inbox, msg)
}

// Send stamps the sender and timestamp, keeps an outbox copy for audit, and
// delivers synchronously.
func (b *Base) Send(to Receiver, msg domain.Message, step int) {
	msg.From = b.name
	msg.Timestamp = step
	b.outbox = append(b.outbox, msg)
	to.Receive(msg)
}

// InboxLen reports how many messages are waiting.
func (b *Base) InboxLen() int { return len(b.inbox) }

// Outbox returns the audit copy of everything this agent has sent.
func (b *Base) Outbox() []domain.Message { return b.outbox }

// BusyUntil is the step at which the agent's current commitment ends.
func (b *Base) BusyUntil() int { return b.busyUntil }

// Completed returns the number of tasks this agent has finished.
func (b *Base) Completed() int { return b.completed }

// ResponseTimes returns every recorded per-task response time.
func (b *Base) ResponseTimes() []int { return b.responseTimes }

// MeanResponseTime returns the running average response time, 0 when no
// task has completed yet.
func (b *Base) MeanResponseTime() float64 { return b.meanResponse }

func (b *Base) markCompleted() {
	b.completed++
}

func (b *Base) recordResponseTime(rt int) {
	b.responseTimes = append(b.responseTimes, rt)
	sum := 0
	for _, v := range b.responseTimes {
		sum += v
	}
	b.meanResponse = float64(sum) / float64(len(b.responseTimes))
}
