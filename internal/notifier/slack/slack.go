package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/dart-scoreboard/internal/match"
	"github.com/mauv0809/dart-scoreboard/internal/metrics"
	"github.com/mauv0809/dart-scoreboard/internal/notifier"
	"github.com/mauv0809/dart-scoreboard/internal/timeline"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendEvent(ctx context.Context, m *match.Match, event timeline.Event, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatEvent(m, event), dryRun)
	return err
}

func (s *Notifier) SendMatchResult(ctx context.Context, m *match.Match, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, formatMatchResult(m), dryRun)
	return err
}

func playerName(m *match.Match, id string) string {
	if p := m.Player(id); p != nil && p.Name != "" {
		return p.Name
	}
	return id
}

// formatEvent creates the message for a leg or set win.
func formatEvent(m *match.Match, event timeline.Event) slack.Message {
	name := playerName(m, event.PlayerID)
	var header, text string
	switch event.Kind {
	case timeline.SetWon:
		header = "🎯 Set won!"
		text = fmt.Sprintf("*%s* won set %d", name, event.SetNumber)
	default:
		header = "🎯 Leg won!"
		text = fmt.Sprintf("*%s* won leg %d of set %d", name, event.LegNumber, event.SetNumber)
		if leg := m.Set(event.SetNumber).Leg(event.LegNumber); leg != nil && leg.CheckoutDartsUsed != nil {
			text += fmt.Sprintf(" with a %d-dart checkout", *leg.CheckoutDartsUsed)
		}
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", header, true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	}
	if standings := formatStandings(m, event); standings != "" {
		blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", standings, false, false)))
	}
	return slack.NewBlockMessage(blocks...)
}

func formatStandings(m *match.Match, event timeline.Event) string {
	snap, ok := timeline.FromMatch(m).Lookup(event.SetNumber, event.LegNumber)
	if !ok {
		return ""
	}
	parts := make([]string, 0, snap.Standings.Len())
	snap.Standings.Each(func(id string, st timeline.Standing) {
		parts = append(parts, fmt.Sprintf("%s: %d sets, %d legs", playerName(m, id), st.SetsWon, st.LegsWonInSet))
	})
	return strings.Join(parts, " | ")
}

// formatMatchResult creates the message for a finished match.
func formatMatchResult(m *match.Match) slack.Message {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "🏆 Match finished! 🏆", true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject("plain_text",
			fmt.Sprintf("%d, best of %d %s", m.MatchSettings.X01, bestOfCount(m.MatchSettings.BestOf), strings.ToLower(string(m.MatchSettings.BestOf.Type))),
			false, false), nil, nil),
		slack.NewDividerBlock(),
	}

	for _, p := range m.Players {
		result := "-"
		if p.Result != nil {
			result = string(*p.Result)
		}
		line := fmt.Sprintf("*%s*: %s", p.Name, result)
		if p.Statistics != nil {
			line += fmt.Sprintf("\nAverage %.2f, checkouts %.1f%%, highest %d", p.Statistics.Average, p.Statistics.CheckoutPercentage, p.Statistics.HighestCheckout)
		}
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", line, false, false), nil, nil))
	}
	return slack.NewBlockMessage(blocks...)
}

func bestOfCount(b match.BestOf) int {
	if b.Type == match.BestOfLegs {
		return b.Legs
	}
	return b.Sets
}
