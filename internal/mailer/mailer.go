// Package mailer delivers outbound email for the gateway.
package mailer

// Mailer sends a single message. contentType is a MIME type such as
// "text/plain" or "text/html".
type Mailer interface {
	Send(to, subject, body, contentType string) error
}
