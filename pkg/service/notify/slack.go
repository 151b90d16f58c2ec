package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/labops/labaudit/pkg/domain/interfaces"
	"github.com/labops/labaudit/pkg/domain/model"
)

// SlackNotifier posts audit lifecycle messages to a fixed Slack channel.
type SlackNotifier struct {
	api       *slack.Client
	channelID string
}

var _ interfaces.Notifier = &SlackNotifier{}

// NewSlack creates a Slack notifier with the provided bot token and target
// channel.
func NewSlack(token, channelID string) (*SlackNotifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	return &SlackNotifier{
		api:       slack.New(token),
		channelID: channelID,
	}, nil
}

// NotifyCompletion posts a summary of a completed audit execution.
func (n *SlackNotifier) NotifyCompletion(ctx context.Context, assignment *model.Assignment, execution *model.AuditExecution, stats model.ChecklistStats) error {
	lab := execution.LabName
	if lab == "" {
		lab = execution.LabID.String()
	}

	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType, "Audit completed", false, false),
	)
	summary := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*%s*\nLab: %s / Category: %s", assignment.Title, lab, execution.Category),
			false, false),
		nil, nil,
	)
	fields := slack.NewSectionBlock(nil, []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Items:*\n%d", stats.Total), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Present:*\n%d", stats.Present), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Issues:*\n%d", stats.Issues), false, false),
	}, nil)

	fallback := fmt.Sprintf("Audit completed: %s (%s/%s), %d items, %d issues",
		assignment.Title, lab, execution.Category, stats.Total, stats.Issues)

	_, _, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionBlocks(header, summary, fields),
		slack.MsgOptionText(fallback, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post completion notification",
			goerr.V("channel_id", n.channelID),
			goerr.V("assignment_id", assignment.ID))
	}
	return nil
}
