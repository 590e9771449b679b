package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/inboop/inboop_server/config"
	"github.com/inboop/inboop_server/internal/database"
	"github.com/inboop/inboop_server/internal/logging"
	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/repository"
	"github.com/inboop/inboop_server/internal/service"
)

// planAdmin is the part of PlanService the CLI drives.
type planAdmin interface {
	GetPlanInfo(workspaceID int64) (*dto.PlanInfo, error)
	ChangePlan(workspaceID int64, plan model.Plan, expiresAt *time.Time) (*model.WorkspacePlan, error)
	Suspend(workspaceID int64) (*model.WorkspacePlan, error)
	Reactivate(workspaceID int64) (*model.WorkspacePlan, error)
	ExpireOverdue() (int64, error)
	ListOverdue() ([]*model.WorkspacePlan, error)
}

type options struct {
	workspace     int64
	plan          string
	expiresInDays int
	suspend       bool
	reactivate    bool
	expireSweep   bool
	dryRun        bool
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("planctl", flag.ContinueOnError)
	opts := &options{}
	fs.Int64Var(&opts.workspace, "workspace", 0, "Workspace id to change")
	fs.StringVar(&opts.plan, "plan", "", "New plan: FREE, PRO or ENTERPRISE")
	fs.IntVar(&opts.expiresInDays, "expires-in-days", 0, "Expire the new plan after N days (0 = never)")
	fs.BoolVar(&opts.suspend, "suspend", false, "Suspend the workspace plan")
	fs.BoolVar(&opts.reactivate, "reactivate", false, "Reactivate a suspended or expired plan")
	fs.BoolVar(&opts.expireSweep, "expire-sweep", false, "Mark every overdue plan as EXPIRED")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Print the current state and the intended change without writing")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, opts.validate()
}

func (o *options) validate() error {
	actions := 0
	for _, set := range []bool{o.plan != "", o.suspend, o.reactivate, o.expireSweep} {
		if set {
			actions++
		}
	}
	switch {
	case actions == 0:
		return errors.New("nothing to do: pass -plan, -suspend, -reactivate or -expire-sweep")
	case actions > 1:
		return errors.New("-plan, -suspend, -reactivate and -expire-sweep are mutually exclusive")
	case !o.expireSweep && o.workspace <= 0:
		return errors.New("-workspace is required")
	case o.plan != "" && !model.Plan(strings.ToUpper(o.plan)).Valid():
		return fmt.Errorf("unknown plan %q", o.plan)
	case o.expiresInDays < 0:
		return errors.New("-expires-in-days must not be negative")
	case o.expiresInDays > 0 && o.plan == "":
		return errors.New("-expires-in-days only applies with -plan")
	}
	return nil
}

func run(opts *options, plans planAdmin, out io.Writer, now time.Time) error {
	if opts.expireSweep {
		if opts.dryRun {
			overdue, err := plans.ListOverdue()
			if err != nil {
				return err
			}
			for _, rec := range overdue {
				fmt.Fprintf(out, "workspace %d: plan=%s expired_at=%s\n",
					rec.WorkspaceID, rec.Plan, rec.ExpiresAt.Format(time.RFC3339))
			}
			fmt.Fprintf(out, "dry run: would expire %d plan(s)\n", len(overdue))
			return nil
		}
		n, err := plans.ExpireOverdue()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "expired %d plan(s)\n", n)
		return nil
	}

	info, err := plans.GetPlanInfo(opts.workspace)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "workspace %d: plan=%s status=%s seats=%d/%d\n",
		opts.workspace, info.Plan.Plan, info.Status, info.Seats.Used, info.Seats.Max)

	var action string
	switch {
	case opts.plan != "":
		action = "change plan to " + strings.ToUpper(opts.plan)
	case opts.suspend:
		action = "suspend"
	case opts.reactivate:
		action = "reactivate"
	}
	if opts.dryRun {
		fmt.Fprintf(out, "dry run: would %s\n", action)
		return nil
	}

	var rec *model.WorkspacePlan
	switch {
	case opts.plan != "":
		var expiresAt *time.Time
		if opts.expiresInDays > 0 {
			t := now.AddDate(0, 0, opts.expiresInDays)
			expiresAt = &t
		}
		rec, err = plans.ChangePlan(opts.workspace, model.Plan(strings.ToUpper(opts.plan)), expiresAt)
	case opts.suspend:
		rec, err = plans.Suspend(opts.workspace)
	case opts.reactivate:
		rec, err = plans.Reactivate(opts.workspace)
	}
	if err != nil {
		return err
	}

	expiry := "never"
	if rec.ExpiresAt != nil {
		expiry = rec.ExpiresAt.Format(time.RFC3339)
	}
	fmt.Fprintf(out, "done: plan=%s status=%s expires=%s\n", rec.Plan, rec.Status, expiry)
	return nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "planctl: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.Log, "planctl")

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	workspaceRepo := repository.NewWorkspaceRepository(db)
	plans := service.NewPlanService(workspaceRepo, repository.NewWorkspacePlanRepository(db), workspaceRepo)

	if err := run(opts, plans, os.Stdout, time.Now()); err != nil {
		log.Fatal().Err(err).Int64("workspace_id", opts.workspace).Msg("planctl failed")
	}
}
