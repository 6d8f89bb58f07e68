package googleauth

import (
	"context"
	"fmt"

	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/gcalendar"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/gdocs"
	"github.com/hugodowson2242/whatsapp-calendar-bot/pkg/gmail"
)

// Clients bundles the per-user Google API clients built for one
// orchestrator run. All three share a token source.
type Clients struct {
	Calendar *gcalendar.Client
	Docs     *gdocs.Client
	Gmail    *gmail.Client
}

// NewClients builds the client set from a stored refresh token. Token
// refresh happens lazily on first use, so a revoked token surfaces as
// an invalid_grant error from the API call, not from here.
func (f *Flow) NewClients(ctx context.Context, refreshToken string) (*Clients, error) {
	ts := f.TokenSource(ctx, refreshToken)

	cal, err := gcalendar.NewClientFromTokenSource(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("build calendar client: %w", err)
	}
	docs, err := gdocs.NewClientFromTokenSource(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("build docs client: %w", err)
	}
	gm, err := gmail.NewClientFromTokenSource(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("build gmail client: %w", err)
	}
	return &Clients{Calendar: cal, Docs: docs, Gmail: gm}, nil
}
