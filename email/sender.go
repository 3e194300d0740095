// Package email composes alert report messages and delivers them through pluggable transports.
package email

import "context"

// Sender delivers a composed message to every recipient in Message.To
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
