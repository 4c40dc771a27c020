package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/SeakMengs/MailBlast/internal/mailer"
	"github.com/SeakMengs/MailBlast/internal/resolver"
	"github.com/SeakMengs/MailBlast/internal/spreadsheet"
	"github.com/SeakMengs/MailBlast/pkg/broadcast"
)

func main() {
	csv := strings.Join([]string{
		"name,email,score",
		"Ann,ann@example.com,92",
		"Bo,bo@example.com,85",
	}, "\n")

	dataset, err := spreadsheet.LoadFromReader(strings.NewReader(csv))
	if err != nil {
		panic(err)
	}

	mail := mailer.NewGmailMailer("smtp.gmail.com", 587, nil)
	driveResolver := resolver.NewDriveResolver(0, nil)
	b := broadcast.NewBroadcaster(mail, driveResolver, broadcast.DefaultSendDelay, nil)

	job := broadcast.Job{
		SubjectTemplate: "Your result, {name}",
		BodyTemplate:    "Hi {name},<br>You scored <b>{score}</b>.",
		EmailColumn:     "email",
		Recipients:      dataset.Recipients("email"),
	}

	result, err := b.Run(context.Background(), dataset, job, broadcast.ModePreview)
	if err != nil {
		panic(err)
	}

	for _, outcome := range result.Outcomes {
		fmt.Printf("%s [%s]\n", outcome.Email, outcome.Status)
		fmt.Printf("  Subject: %s\n", outcome.Preview.Subject)
		fmt.Printf("  Body: %s\n", outcome.Preview.Body)
	}

	summary := result.Summary()
	fmt.Printf("Total: %d\n", summary.Total)
}
