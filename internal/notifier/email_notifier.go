package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	config "github.com/meshawi/Pharmacy-Management-System/configs"
)

// SendOrderConfirmation emails the customer after a committed order. It is
// fired in a goroutine after the transaction; a delivery failure never
// unwinds the order.
func SendOrderConfirmation(ctx context.Context, cfg config.EmailConfig, recipientEmail, customerName string, orderID uint, totalAmount int64) error {
	if cfg.SenderEmail == "" {
		return fmt.Errorf("sender email address is not configured in environment variables")
	}
	if recipientEmail == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		return fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := ses.NewFromConfig(awsCfg)

	subject := fmt.Sprintf("Order #%d Confirmation - Thank You for Your Purchase!", orderID)
	totalStr := formatAmount(totalAmount)

	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>Thank you for your order! Your order #%d has been successfully placed.</p>
            <p><strong>Order Details:</strong></p>
            <ul>
                <li>Order ID: %d</li>
                <li>Total Amount: KES %s</li>
            </ul>
            <p>We'll notify you when your order ships.</p>
            <p>Best regards,</p>
            <p>Your Pharmacy Team</p>
        </body>
        </html>`, customerName, orderID, orderID, totalStr)

	bodyText := fmt.Sprintf(
		"Dear %s,\n\nThank you for your order! Your order #%d has been successfully placed.\n\n"+
			"Order Details:\nOrder ID: %d\nTotal Amount: KES %s\n\n"+
			"We'll notify you when your order ships.\n\nBest regards,\nYour Pharmacy Team",
		customerName, orderID, orderID, totalStr)

	input := &ses.SendEmailInput{
		Source: aws.String(cfg.SenderEmail),
		Destination: &types.Destination{
			ToAddresses: []string{recipientEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	if _, err := client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.InfoContext(ctx, "order confirmation email sent", "order_id", orderID, "recipient", recipientEmail)
	return nil
}

// formatAmount renders minor currency units as a decimal string.
func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
