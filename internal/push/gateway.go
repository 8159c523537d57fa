package push

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// maxTokensPerSend is FCM's multicast ceiling.
const maxTokensPerSend = 500

// TokenDelivery reports one token's outcome. Permanent marks tokens the
// provider says are gone for good (unregistered, wrong sender); the worker
// deactivates those instead of retrying them forever.
type TokenDelivery struct {
	Token     string
	Err       error
	Permanent bool
}

// Gateway is the remote-push provider: it takes a bounded token list and
// reports success or failure per token. Tests plug in fakes.
type Gateway interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]TokenDelivery, error)
}

// FCMGateway delivers through Firebase Cloud Messaging, rate limited so a
// large fan-out cannot starve the rest of the project's FCM quota.
type FCMGateway struct {
	client  *messaging.Client
	limiter *rate.Limiter
}

func NewFCMGateway(ctx context.Context, credentialsFile string, perSecond int) (*FCMGateway, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, err
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	if perSecond <= 0 {
		perSecond = 100
	}
	return &FCMGateway{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond),
	}, nil
}

func (g *FCMGateway) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]TokenDelivery, error) {
	deliveries := make([]TokenDelivery, 0, len(tokens))

	for start := 0; start < len(tokens); start += maxTokensPerSend {
		end := start + maxTokensPerSend
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[start:end]

		if err := g.limiter.Wait(ctx); err != nil {
			return deliveries, err
		}

		response, err := g.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       batch,
			Notification: &messaging.Notification{Title: title, Body: body},
			Data:         data,
		})
		if err != nil {
			return deliveries, err
		}

		for i, result := range response.Responses {
			delivery := TokenDelivery{Token: batch[i]}
			if !result.Success {
				delivery.Err = result.Error
				delivery.Permanent = messaging.IsUnregistered(result.Error) ||
					messaging.IsSenderIDMismatch(result.Error)
			}
			deliveries = append(deliveries, delivery)
		}
	}

	return deliveries, nil
}
