package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/hurby24/Bibliobay-backend/internal/domain"
)

type sesAPI interface {
	SendEmail(ctx context.Context, in *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends OTP emails through Amazon SES.
type SESSender struct {
	client sesAPI
	from   string
}

func NewSESSender(awsCfg aws.Config, from string) *SESSender {
	return &SESSender{client: sesv2.NewFromConfig(awsCfg), from: from}
}

func (s *SESSender) SendOTP(ctx context.Context, to string, msg domain.OTPMessage) error {
	r, err := Render(msg)
	if err != nil {
		return fmt.Errorf("render otp email: %w", err)
	}
	_, err = s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(r.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(r.Text), Charset: aws.String("UTF-8")},
					Html: &types.Content{Data: aws.String(r.HTML), Charset: aws.String("UTF-8")},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
