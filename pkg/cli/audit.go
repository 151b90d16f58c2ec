package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/labops/labaudit/pkg/cli/config"
	"github.com/labops/labaudit/pkg/domain/model"
	"github.com/labops/labaudit/pkg/domain/types"
	"github.com/labops/labaudit/pkg/usecase"
)

func cmdAudit() *cli.Command {
	return &cli.Command{
		Name:    "audit",
		Aliases: []string{"a"},
		Usage:   "Execute audit assignments against the audit API",
		Commands: []*cli.Command{
			cmdAuditRun(),
			cmdAuditScan(),
			cmdAuditUpdate(),
			cmdAuditBulk(),
			cmdAuditComplete(),
			cmdAuditStatus(),
		},
	}
}

// auditSession bundles the flags shared by every audit subcommand and builds
// a hydrated assignment controller from them.
type auditSession struct {
	apiCfg       config.AuditAPI
	notifyCfg    config.Notify
	assignmentID string
	catalogPath  string
}

func (s *auditSession) flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "assignment-id",
			Usage:       "Audit assignment ID",
			Required:    true,
			Sources:     cli.EnvVars("LABAUDIT_ASSIGNMENT_ID"),
			Destination: &s.assignmentID,
		},
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to the lab/category catalog TOML file (optional input validation)",
			Sources:     cli.EnvVars("LABAUDIT_CATALOG"),
			Destination: &s.catalogPath,
		},
	}
	flags = append(flags, s.apiCfg.Flags()...)
	flags = append(flags, s.notifyCfg.Flags()...)
	return flags
}

// validateTarget rejects unknown lab/category inputs before any network call
// when a catalog file is configured.
func (s *auditSession) validateTarget(labID types.LabID, category string) error {
	if s.catalogPath == "" {
		return nil
	}

	catalog, err := config.LoadCatalog(s.catalogPath)
	if err != nil {
		return goerr.Wrap(err, "failed to load catalog")
	}
	if labID != "" && !catalog.HasLab(labID) {
		return goerr.New("lab is not listed in the catalog", goerr.V("lab_id", labID))
	}
	if category != "" && !catalog.HasCategory(category) {
		return goerr.New("category is not listed in the catalog", goerr.V("category", category))
	}
	return nil
}

func (s *auditSession) controller(ctx context.Context) (*usecase.AssignmentUseCase, error) {
	client, err := s.apiCfg.Configure()
	if err != nil {
		return nil, err
	}

	var opts []usecase.AssignmentOption
	notifier, err := s.notifyCfg.Configure()
	if err != nil {
		return nil, err
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}

	engine := usecase.NewExecutionUseCase(client)
	uc := usecase.NewAssignmentUseCase(client, engine, opts...)

	if _, err := uc.Hydrate(ctx, types.AssignmentID(s.assignmentID)); err != nil {
		return nil, goerr.Wrap(err, "failed to load assignment")
	}
	return uc, nil
}

var (
	statusColors = map[types.ItemStatus]*color.Color{
		types.ItemStatusPresent:          color.New(color.FgGreen),
		types.ItemStatusMissing:          color.New(color.FgRed),
		types.ItemStatusDamaged:          color.New(color.FgRed),
		types.ItemStatusLocationMismatch: color.New(color.FgYellow),
		types.ItemStatusQuantityMismatch: color.New(color.FgYellow),
		types.ItemStatusNotChecked:       color.New(color.Faint),
	}
	highlightColor = color.New(color.FgCyan, color.Bold)
	alertColor     = color.New(color.FgRed, color.Bold)
)

func printItem(item model.ChecklistItem, highlighted bool) {
	c, ok := statusColors[item.Status.Normalize()]
	if !ok {
		c = color.New()
	}

	line := fmt.Sprintf("%-12s %-32s %-18s qty %d/%d  %s",
		item.ItemID, item.Name, item.Status.Normalize(),
		item.ActualQuantity, item.ExpectedQuantity, item.ExpectedLocation)
	if item.Remarks != "" {
		line += "  (" + item.Remarks + ")"
	}

	if highlighted {
		highlightColor.Fprintln(os.Stdout, "> "+line)
		return
	}
	c.Fprintln(os.Stdout, "  "+line)
}

func printChecklist(exec *model.AuditExecution, highlightID types.ItemID) {
	fmt.Printf("Execution %s  lab=%s category=%s\n", exec.ID, exec.LabName, exec.Category)
	for _, item := range exec.Items {
		printItem(item, highlightID != "" && item.ItemID == highlightID)
	}
	stats := exec.Stats()
	fmt.Printf("Checked %d/%d (%d%%), issues %d\n",
		stats.Checked, stats.Total, stats.Percentage, stats.Issues)
}

func cmdAuditRun() *cli.Command {
	var session auditSession
	var labID string
	var category string

	flags := append(session.flags(),
		&cli.StringFlag{
			Name:        "lab",
			Usage:       "Target laboratory ID",
			Required:    true,
			Destination: &labID,
		},
		&cli.StringFlag{
			Name:        "category",
			Usage:       "Inventory category to audit",
			Required:    true,
			Destination: &category,
		},
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Start or resume an audit execution and show its checklist",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := session.validateTarget(types.LabID(labID), category); err != nil {
				return err
			}

			uc, err := session.controller(ctx)
			if err != nil {
				return err
			}

			exec, err := uc.BeginExecution(ctx, types.LabID(labID), category)
			if err != nil {
				return err
			}

			printChecklist(exec, "")
			return nil
		},
	}
}

func cmdAuditScan() *cli.Command {
	var session auditSession
	var labID string
	var category string
	var equipmentOnly bool

	flags := append(session.flags(),
		&cli.StringFlag{
			Name:        "lab",
			Usage:       "Target laboratory ID",
			Required:    true,
			Destination: &labID,
		},
		&cli.StringFlag{
			Name:        "category",
			Usage:       "Inventory category to audit",
			Required:    true,
			Destination: &category,
		},
		&cli.BoolFlag{
			Name:        "equipment-only",
			Usage:       "Match the token against equipment identifiers only",
			Destination: &equipmentOnly,
		},
	)

	return &cli.Command{
		Name:      "scan",
		Usage:     "Resolve a scan token (item ID, QR code or name fragment) to a checklist row",
		ArgsUsage: "<token>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			token := c.Args().First()
			if token == "" {
				return goerr.New("a scan token argument is required")
			}

			if err := session.validateTarget(types.LabID(labID), category); err != nil {
				return err
			}

			uc, err := session.controller(ctx)
			if err != nil {
				return err
			}

			exec, err := uc.BeginExecution(ctx, types.LabID(labID), category)
			if err != nil {
				return err
			}

			var item *model.ChecklistItem
			var found bool
			if equipmentOnly {
				item, found = usecase.ResolveByEquipmentID(token, exec.Items, true)
			} else {
				item, found = usecase.ResolveByToken(token, exec.Items)
			}
			if !found {
				return goerr.New("no checklist item matched the token", goerr.V("token", token))
			}

			printChecklist(exec, item.ItemID)
			if !item.Updatable() {
				fmt.Println("matched item is read-only (no usable identifier)")
			}

			// Keep the row highlighted the way the scanning UI does.
			time.Sleep(usecase.HighlightWindow)
			return nil
		},
	}
}

func updateFlags(status, remarks *string, quantity *int) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "status",
			Usage:       "Verification result (present, missing, damaged, location_mismatch, quantity_mismatch)",
			Required:    true,
			Destination: status,
		},
		&cli.IntFlag{
			Name:        "quantity",
			Usage:       "Actual quantity (only used with quantity_mismatch)",
			Destination: quantity,
		},
		&cli.StringFlag{
			Name:        "remarks",
			Usage:       "Free-form remarks for the item",
			Destination: remarks,
		},
	}
}

func cmdAuditUpdate() *cli.Command {
	var session auditSession
	var labID string
	var category string
	var itemID string
	var statusStr string
	var remarks string
	var quantity int

	flags := append(session.flags(),
		&cli.StringFlag{
			Name:        "lab",
			Usage:       "Target laboratory ID",
			Required:    true,
			Destination: &labID,
		},
		&cli.StringFlag{
			Name:        "category",
			Usage:       "Inventory category to audit",
			Required:    true,
			Destination: &category,
		},
		&cli.StringFlag{
			Name:        "item",
			Usage:       "Checklist item ID",
			Required:    true,
			Destination: &itemID,
		},
	)
	flags = append(flags, updateFlags(&statusStr, &remarks, &quantity)...)

	return &cli.Command{
		Name:  "update",
		Usage: "Record the verification result of one checklist item",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			status, err := types.ParseItemStatus(statusStr)
			if err != nil {
				return goerr.Wrap(err, "invalid status flag")
			}

			uc, err := session.controller(ctx)
			if err != nil {
				return err
			}

			if _, err := uc.BeginExecution(ctx, types.LabID(labID), category); err != nil {
				return err
			}

			item, err := uc.UpdateItem(ctx, types.ItemID(itemID), status, quantity, remarks)
			if err != nil {
				return err
			}

			printItem(*item, false)
			stats := uc.RecordProgress()
			fmt.Printf("Checked %d/%d (%d%%)\n", stats.Checked, stats.Total, stats.Percentage)
			return nil
		},
	}
}

func cmdAuditBulk() *cli.Command {
	var session auditSession
	var labID string
	var category string
	var itemIDs []string
	var statusStr string
	var remarks string
	var quantity int

	flags := append(session.flags(),
		&cli.StringFlag{
			Name:        "lab",
			Usage:       "Target laboratory ID",
			Required:    true,
			Destination: &labID,
		},
		&cli.StringFlag{
			Name:        "category",
			Usage:       "Inventory category to audit",
			Required:    true,
			Destination: &category,
		},
		&cli.StringSliceFlag{
			Name:        "item",
			Usage:       "Checklist item IDs (repeatable)",
			Required:    true,
			Destination: &itemIDs,
		},
	)
	flags = append(flags, updateFlags(&statusStr, &remarks, &quantity)...)

	return &cli.Command{
		Name:  "bulk",
		Usage: "Record one verification result across multiple checklist items",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			status, err := types.ParseItemStatus(statusStr)
			if err != nil {
				return goerr.Wrap(err, "invalid status flag")
			}

			uc, err := session.controller(ctx)
			if err != nil {
				return err
			}

			if _, err := uc.BeginExecution(ctx, types.LabID(labID), category); err != nil {
				return err
			}

			ids := make([]types.ItemID, len(itemIDs))
			for i, id := range itemIDs {
				ids[i] = types.ItemID(id)
			}

			result, err := uc.BulkUpdate(ctx, ids, status, quantity, remarks)
			if err != nil {
				return err
			}

			fmt.Printf("Updated %d of %d items\n", result.Succeeded, result.Succeeded+result.Failed)
			if !result.AllSucceeded() {
				for _, id := range result.FailedIDs {
					alertColor.Printf("failed: %s\n", id)
				}
				return goerr.New("some items failed to update",
					goerr.V("failed", result.Failed),
					goerr.V("failed_ids", result.FailedIDs),
				)
			}
			return nil
		},
	}
}

func cmdAuditComplete() *cli.Command {
	var session auditSession
	var labID string
	var category string
	var observations string
	var recommendations string

	flags := append(session.flags(),
		&cli.StringFlag{
			Name:        "lab",
			Usage:       "Target laboratory ID",
			Required:    true,
			Destination: &labID,
		},
		&cli.StringFlag{
			Name:        "category",
			Usage:       "Inventory category to audit",
			Required:    true,
			Destination: &category,
		},
		&cli.StringFlag{
			Name:        "observations",
			Usage:       "General observations recorded with the completion",
			Destination: &observations,
		},
		&cli.StringFlag{
			Name:        "recommendations",
			Usage:       "Recommendations recorded with the completion",
			Destination: &recommendations,
		},
	)

	return &cli.Command{
		Name:  "complete",
		Usage: "Close the audit execution once every item has been checked",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := session.controller(ctx)
			if err != nil {
				return err
			}

			if _, err := uc.BeginExecution(ctx, types.LabID(labID), category); err != nil {
				return err
			}

			exec, err := uc.Finish(ctx, observations, recommendations)
			if err != nil {
				return err
			}

			stats := exec.Stats()
			color.New(color.FgGreen, color.Bold).Printf("Audit completed: %d items checked, %d issues\n",
				stats.Checked, stats.Issues)
			return nil
		},
	}
}

func cmdAuditStatus() *cli.Command {
	var session auditSession

	return &cli.Command{
		Name:  "status",
		Usage: "Show the assignment state, progress and execution history",
		Flags: session.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := session.controller(ctx)
			if err != nil {
				return err
			}

			a := uc.Assignment()
			fmt.Printf("%s  [%s]\n", a.Title, a.Priority)
			fmt.Printf("  assigned to: %s\n", a.AssignedTo)
			fmt.Printf("  status:      %s\n", a.Status.Normalize())
			fmt.Printf("  progress:    %d%%\n", a.Progress)
			if !a.DueDate.IsZero() {
				fmt.Printf("  due:         %s\n", a.DueDate.Format(time.RFC3339))
			}
			if a.Overdue(time.Now()) {
				alertColor.Println("  OVERDUE")
			}

			for _, lab := range a.Labs {
				fmt.Printf("  lab: %s (%s)\n", lab.Name, lab.ID)
			}
			for _, task := range a.Tasks {
				fmt.Printf("  task: %s [%s]\n", task.Description, task.Category)
			}

			executions, err := uc.Executions(ctx)
			if err != nil {
				return err
			}
			if len(executions) == 0 {
				fmt.Println("  no executions yet")
				return nil
			}

			fmt.Println("Executions:")
			for _, exec := range executions {
				state := "open"
				if !exec.Open() {
					state = "completed " + exec.CompletedAt.Format(time.RFC3339)
				}
				stats := exec.Stats()
				fmt.Printf("  %s  %s/%s  %d%% (%s)\n",
					exec.ID, exec.LabName, exec.Category, stats.Percentage, state)
			}
			return nil
		},
	}
}
