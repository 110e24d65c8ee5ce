package models

// EmailMessage is an outbound mail. HTML is optional.
type EmailMessage struct {
	To      string   `json:"to" validate:"required,email"`
	CC      []string `json:"cc,omitempty" validate:"omitempty,dive,email"`
	Subject string   `json:"subject" validate:"required"`
	Text    string   `json:"text" validate:"required"`
	HTML    string   `json:"html,omitempty"`
}
