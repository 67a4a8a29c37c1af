package push

import (
    "context"

    firebase "firebase.google.com/go/v4"
    "firebase.google.com/go/v4/errorutils"
    "firebase.google.com/go/v4/messaging"
    "google.golang.org/api/option"
)

// FCMSender delivers messages through Firebase Cloud Messaging.
type FCMSender struct {
    client *messaging.Client
}

// NewFCMSender initializes the Firebase app from a service account file and
// returns a sender backed by its messaging client.
func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
    app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
    if err != nil {
        return nil, err
    }
    client, err := app.Messaging(ctx)
    if err != nil {
        return nil, err
    }
    return &FCMSender{client: client}, nil
}

// Send delivers one message to one token and classifies the outcome.
// Unregistered and invalid-registration responses both mean the token will
// never work again and map to KindInvalidToken; anything else is transient.
func (s *FCMSender) Send(ctx context.Context, token string, msg Message) error {
    ttl := msg.TTL
    out := &messaging.Message{
        Token: token,
        Data:  msg.Data,
        Android: &messaging.AndroidConfig{
            Priority: msg.Priority,
            TTL:      &ttl,
        },
    }
    if msg.Title != "" || msg.Body != "" {
        out.Notification = &messaging.Notification{Title: msg.Title, Body: msg.Body}
        out.Android.Notification = &messaging.AndroidNotification{
            DefaultSound:         true,
            DefaultVibrateTimings: true,
            Sticky:               false,
        }
    }
    if _, err := s.client.Send(ctx, out); err != nil {
        if messaging.IsUnregistered(err) || errorutils.IsInvalidArgument(err) {
            return &SendError{Kind: KindInvalidToken, Err: err}
        }
        return &SendError{Kind: KindUnavailable, Err: err}
    }
    return nil
}
