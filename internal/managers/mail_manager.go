// Package managers handles the sending of verification emails using the
// Mailgun service and the Hermes package for email formatting.
package managers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
)

// MailMgr is the outbound email capability: render a templated body and
// hand it to the transport. Failures are reported, never fatal.
type MailMgr interface {
	SendVerificationMail(email, username, firstName, lastName, verificationURL string) error
}

// MailManager is a concrete implementation of the MailMgr interface.
// It uses the Mailgun service for sending emails and the Hermes package
// for formatting them.
type MailManager struct {
	Hermes  *hermes.Hermes
	Mailgun *mailgun.MailgunImpl
}

var from = "Microblog <noreply@mail.microblog.example>"
var environment string

// SendVerificationMail sends the email-verification message containing the
// verification link. The send runs under its own short deadline so a slow
// transport cannot stall the request that triggered it.
func (mm *MailManager) SendVerificationMail(email, username, firstName, lastName, verificationURL string) error {
	if environment != "production" {
		log.Info("Skipping verification mail in development mode")
		return nil
	}

	name := username
	if firstName != "" {
		name = firstName + " " + lastName
	}

	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: name,
			Intros: []string{
				fmt.Sprintf("Welcome to Microblog, %s! We're very excited to have you on board.", username),
				"Before you can log in, we need to confirm that this email address belongs to you.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "To activate your account, please click the button below within the next 24 hours:",
					Button: hermes.Button{
						Text: "Verify your email",
						Link: verificationURL,
					},
				},
			},
			Outros: []string{
				"If you did not sign up for Microblog, you can safely ignore this email.",
			},
		},
	}

	emailBody, err := mm.Hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(2*time.Second))
	defer cancel()

	message := mm.Mailgun.NewMessage(from, "Verify Your Email - Microblog", "", email)
	message.SetHtml(emailBody)
	if _, _, err = mm.Mailgun.Send(ctx, message); err != nil {
		log.Warning("Error sending verification mail: " + err.Error())
		return err
	}
	log.Debug("Verification mail sent to ", email)

	return nil
}

// NewMailManager initializes a new MailManager with configured Mailgun and
// Hermes settings. Outside of production the transport is skipped and
// sends report success.
func NewMailManager() MailMgr {
	log.Info("Initializing mail manager")
	environment = os.Getenv("ENVIRONMENT")

	if environment != "production" {
		log.Println("Running in development mode, email will not be sent to users")
	}

	apiKey := os.Getenv("MAILGUN_API_KEY")
	mailgunInstance := mailgun.NewMailgun("mail.microblog.example", apiKey)
	mailgunInstance.SetAPIBase(mailgun.APIBaseEU)

	mm := &MailManager{
		Hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:        "Microblog",
				Link:        "https://microblog.example/",
				Copyright:   "© Microblog",
				TroubleText: "If you’re having trouble with the button '{ACTION}', copy and paste the URL below into your web browser.",
			},
		},
		Mailgun: mailgunInstance,
	}
	log.Info("Initialized mail manager")
	return mm
}
