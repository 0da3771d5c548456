package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// SlackNotifier posts run results to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewSlackNotifier builds a notifier for the given webhook URL.
func NewSlackNotifier(webhookURL string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type slackMessage struct {
	Text string `json:"text"`
}

// NotifyRun sends a short summary of the run. The webhook URL is a secret
// and must never appear in the message or in errors surfaced to logs.
func (n *SlackNotifier) NotifyRun(ctx context.Context, report *RunReport) error {
	if n.webhookURL == "" {
		return fmt.Errorf("slack webhook url is empty")
	}

	icon := ":white_check_mark:"
	if report.Status != StatusSuccess {
		icon = ":x:"
	}
	text := fmt.Sprintf("%s *%s* run `%s` finished with status *%s* (%d jobs, %s)",
		icon,
		report.Workflow,
		report.RunID,
		report.Status,
		len(report.Jobs),
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond),
	)

	body, err := json.Marshal(slackMessage{Text: text})
	if err != nil {
		return fmt.Errorf("marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}
