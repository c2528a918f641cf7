package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const (
	colorGain    = 0x00FF00
	colorLoss    = 0xFF0000
	colorSummary = 0x3498db
)

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
	Footer      *discordFooter `json:"footer,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordFooter struct {
	Text string `json:"text"`
}

// Discord posts alerts to a Discord channel webhook as rich embeds.
type Discord struct {
	webhookURL string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewDiscord creates a Discord notifier for webhookURL.
func NewDiscord(webhookURL string, httpClient *http.Client, logger *zap.SugaredLogger) *Discord {
	return &Discord{webhookURL: webhookURL, httpClient: httpClient, logger: logger}
}

// Send posts a single alert embed.
func (d *Discord) Send(ctx context.Context, alert Alert) error {
	if err := d.post(ctx, discordPayload{Embeds: []discordEmbed{alertEmbed(alert)}}); err != nil {
		d.logger.Errorw("discord notification failed", "company", alert.CompanyName, "error", err)
		return err
	}
	d.logger.Infow("discord notification sent", "company", alert.CompanyName, "type", alert.AlertType)
	return nil
}

// SendBatch sends alerts one by one and returns the number delivered.
func (d *Discord) SendBatch(ctx context.Context, alerts []Alert) int {
	sent := 0
	for _, a := range alerts {
		if err := d.Send(ctx, a); err == nil {
			sent++
		}
	}
	return sent
}

// SendSummary posts the run totals.
func (d *Discord) SendSummary(ctx context.Context, summary Summary) error {
	embed := discordEmbed{
		Title:       "📊 Stock Alert Summary",
		Description: "Alert check completed",
		Color:       colorSummary,
		Fields: []discordField{
			{Name: "Total Alerts Checked", Value: strconv.Itoa(summary.AlertsChecked), Inline: true},
			{Name: "Alerts Triggered", Value: strconv.Itoa(summary.Triggered), Inline: true},
		},
	}
	if err := d.post(ctx, discordPayload{Embeds: []discordEmbed{embed}}); err != nil {
		d.logger.Errorw("discord summary failed", "error", err)
		return err
	}
	return nil
}

func alertEmbed(a Alert) discordEmbed {
	emoji, color := "📉", colorLoss
	if a.IsGain() {
		emoji, color = "📈", colorGain
	}
	footer := a.UserEmail
	if footer == "" {
		footer = "user"
	}
	return discordEmbed{
		Title:       fmt.Sprintf("%s Stock Alert: %s", emoji, a.CompanyName),
		Description: fmt.Sprintf("**%s Alert Triggered!**", a.AlertType),
		Color:       color,
		Fields: []discordField{
			{Name: "Current Price", Value: FormatRupees(a.CurrentPrice), Inline: true},
			{Name: "Baseline Price", Value: FormatRupees(a.BaselinePrice), Inline: true},
			{Name: "Change", Value: FormatPercent(a.PercentChange), Inline: true},
		},
		Footer: &discordFooter{Text: "Alert for " + footer},
	}
}

func (d *Discord) post(ctx context.Context, payload discordPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("posting webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}
