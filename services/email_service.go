package services

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// EmailSender dispatches one HTML email. Best-effort collaborator: callers
// log failures and move on.
type EmailSender interface {
	Send(to, subject, htmlBody string) error
}

// SESEmailService sends via AWS SES.
type SESEmailService struct {
	client *ses.Client
	from   string
}

func NewSESEmailService() (*SESEmailService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, fmt.Errorf("AWS config load failed: %w", err)
	}
	return &SESEmailService{
		client: ses.NewFromConfig(cfg),
		from:   os.Getenv("SES_EMAIL"),
	}, nil
}

func (s *SESEmailService) Send(to, subject, htmlBody string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
			},
		},
		Source: aws.String(s.from),
	}

	if _, err := s.client.SendEmail(context.TODO(), input); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

// BuildDailyPracticeEmail renders the daily reminder. The list may be empty;
// the email still goes out so the day is marked as handled.
func BuildDailyPracticeEmail(dateLabel string, items []PracticeEmailItem) (subject, htmlBody string) {
	subject = fmt.Sprintf("Your practice problems for %s", dateLabel)

	var b strings.Builder
	b.WriteString("<h2>Daily Practice</h2>")
	b.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(dateLabel)))

	if len(items) == 0 {
		b.WriteString("<p>Nothing is due today. Enjoy the break!</p>")
		return subject, b.String()
	}

	b.WriteString("<ul>")
	for _, item := range items {
		b.WriteString(fmt.Sprintf(
			`<li><a href="%s">%s</a> <em>(%s)</em></li>`,
			html.EscapeString(item.LeetcodeURL),
			html.EscapeString(item.Title),
			html.EscapeString(item.Difficulty),
		))
	}
	b.WriteString("</ul>")
	b.WriteString("<p>Keep the streak going!</p>")
	return subject, b.String()
}
