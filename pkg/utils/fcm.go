package utils

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Notifier pushes a message to one device.
type Notifier interface {
	SendNotification(ctx context.Context, token, title, body string, data map[string]string) error
}

// NoopNotifier is used when FCM is not configured.
type NoopNotifier struct{}

func (NoopNotifier) SendNotification(context.Context, string, string, string, map[string]string) error {
	return nil
}

// FCMNotifier sends through Firebase Cloud Messaging.
type FCMNotifier struct {
	client *messaging.Client
}

// NewFCMNotifier initializes Firebase from a service account file.
func NewFCMNotifier(ctx context.Context, credentialsFile string) (*FCMNotifier, error) {
	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}

	log.Info().Msg("Firebase Cloud Messaging ready")
	return &FCMNotifier{client: client}, nil
}

func (n *FCMNotifier) SendNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return nil
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := n.client.Send(ctx, message); err != nil {
		return fmt.Errorf("send fcm message: %w", err)
	}
	return nil
}
