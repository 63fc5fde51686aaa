// Package notify sends budget alert emails through Resend.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/FACorreiaa/pocketledger/internal/domain/budget"
)

// Notifier delivers budget alerts to the configured recipient. A nil
// client disables delivery, which keeps local development quiet.
type Notifier struct {
	client *resend.Client
	from   string
	to     string
	logger *slog.Logger
}

func New(apiKey, from, to string, logger *slog.Logger) *Notifier {
	n := &Notifier{from: from, to: to, logger: logger}
	if apiKey != "" && to != "" {
		n.client = resend.NewClient(apiKey)
	}
	return n
}

// Enabled reports whether emails will actually be sent.
func (n *Notifier) Enabled() bool {
	return n.client != nil
}

// SendBudgetAlert emails a summary of breached budgets.
func (n *Notifier) SendBudgetAlert(ctx context.Context, breaches []budget.Status) error {
	if n.client == nil || len(breaches) == 0 {
		return nil
	}

	var body strings.Builder
	body.WriteString("<h2>Budget alert</h2><ul>")
	for _, st := range breaches {
		state := "is nearing its limit"
		if st.OverBudget {
			state = "is over budget"
		}
		fmt.Fprintf(&body, "<li>A budget %s: %.2f of %.2f %s spent (%.1f%%)</li>",
			state, st.Spent, float64(st.Budget.AmountCents)/100, st.Budget.CurrencyCode, st.PercentUsed)
	}
	body.WriteString("</ul>")

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: "Your budget needs attention",
		Html:    body.String(),
	}

	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send budget alert: %w", err)
	}

	n.logger.Info("budget alert sent", slog.Int("breaches", len(breaches)))
	return nil
}
