package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/labops/labaudit/pkg/domain/interfaces"
	"github.com/labops/labaudit/pkg/service/notify"
	"github.com/labops/labaudit/pkg/utils/logging"
)

// Notify holds CLI flags for completion notification configuration
type Notify struct {
	slackToken   string
	slackChannel string
}

// Flags returns CLI flags for notification configuration
func (n *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack bot token for completion notifications (disabled when empty)",
			Sources:     cli.EnvVars("LABAUDIT_SLACK_BOT_TOKEN"),
			Destination: &n.slackToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID for completion notifications",
			Sources:     cli.EnvVars("LABAUDIT_SLACK_CHANNEL"),
			Destination: &n.slackChannel,
		},
	}
}

// Configure builds the notifier from the flags. It returns nil when
// notifications are not configured.
func (n *Notify) Configure() (interfaces.Notifier, error) {
	if n.slackToken == "" {
		return nil, nil
	}
	if n.slackChannel == "" {
		return nil, goerr.New("slack-channel is required when slack-bot-token is set")
	}

	notifier, err := notify.NewSlack(n.slackToken, n.slackChannel)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}

	logging.Default().Info("Slack completion notifications enabled", "channel", n.slackChannel)
	return notifier, nil
}
