package email

import (
	"context"
)

type Service interface {
	SendBookingRequest(ctx context.Context, to, professionalName, serviceName, when string) error
	SendStatusUpdate(ctx context.Context, to, recipientName, serviceName, when, newStatus string) error
	SendCustom(ctx context.Context, to, subject, content string) error
}
