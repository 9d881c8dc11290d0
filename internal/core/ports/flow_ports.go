package ports

import (
	"context"

	"github.com/smartwearable/guardian-verify/internal/core/flow"
)

type FlowService interface {
	// Begin renders the landing (idle) step for an invite token, including
	// the provider authorization URL.
	Begin(token string) flow.Outcome

	// HandleCallback drives the whole callback sequence: exchange, identity,
	// record, validate, link. It never returns an error; failures land in a
	// terminal failed outcome.
	HandleCallback(ctx context.Context, code, state string) flow.Outcome
}
