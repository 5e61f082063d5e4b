// Command homepage-publish applies the built-in campus landing template as
// the site homepage, or rolls the current homepage back to a draft.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/campuscms/campuscms/internal/common/logtrace"
	"github.com/campuscms/campuscms/internal/templatesrv/catalog"
	"github.com/campuscms/campuscms/internal/templatesrv/cmscommon"
	"github.com/campuscms/campuscms/internal/templatesrv/config"
	"github.com/campuscms/campuscms/internal/templatesrv/db/dbmanager"
	"github.com/campuscms/campuscms/internal/templatesrv/db/postgresql"
	"github.com/campuscms/campuscms/internal/templatesrv/publisher"
	"github.com/campuscms/campuscms/internal/templatesrv/resolver"
	"github.com/campuscms/campuscms/internal/templatesrv/store"
)

var (
	stepColor = color.New(color.FgCyan, color.Bold)
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed, color.Bold)
)

// cliReporter prints publisher progress. Publisher steps shift by one
// because configuration validation is step 1 of the CLI run.
type cliReporter struct{}

func (cliReporter) Step(n int, msg string) {
	stepColor.Printf("[step %d] ", n+1)
	fmt.Println(msg)
}

func (cliReporter) Warn(msg string) {
	warnColor.Printf("warning: %s\n", msg)
}

var rollback bool

var rootCmd = &cobra.Command{
	Use:   "homepage-publish",
	Short: "Publish the campus landing template as the site homepage",
	Long: `homepage-publish creates a new homepage from the built-in campus
landing template, demoting any existing homepage in the same transaction.
With --rollback it demotes the current homepage back to a draft instead.

Datastore access is configured through the environment:
  ` + config.EnvDatastoreURL + `, ` + config.EnvDatastorePassword + `, ` + config.EnvTenantID,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func run() error {
	// .env is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()

	stepColor.Print("[step 1] ")
	fmt.Println("validating datastore configuration")
	dsn, err := config.DatastoreFromEnv()
	if err != nil {
		failColor.Printf("configuration error: %v\n", err)
		fmt.Printf("set %s and %s before running\n", config.EnvDatastoreURL, config.EnvDatastorePassword)
		return err
	}
	tenant, err := config.TenantFromEnv()
	if err != nil {
		failColor.Printf("configuration error: %v\n", err)
		fmt.Printf("set %s to the institution identifier\n", config.EnvTenantID)
		return err
	}

	pool, err := dbmanager.NewPostgresPool(dsn)
	if err != nil {
		failColor.Printf("datastore connection failed: %v\n", err)
		return err
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = cmscommon.WithTenantID(ctx, cmscommon.TenantID(tenant))

	pgStore := postgresql.New(pool)
	rsv := resolver.New(store.New(catalog.Definitions, time.Hour))
	pub := publisher.New(pgStore, rsv, cliReporter{})

	if rollback {
		return runRollback(ctx, pub)
	}
	return runApply(ctx, pub)
}

func runApply(ctx context.Context, pub *publisher.Publisher) error {
	res, err := pub.Apply(ctx, catalog.HomepageTemplateID)
	if err != nil {
		failColor.Printf("publish failed: %v\n", err)
		switch {
		case errors.Is(err, publisher.ErrTemplateNotFound):
			fmt.Println("check that the campus landing template is registered in the catalog")
		case errors.Is(err, publisher.ErrBlockCopy):
			fmt.Println("the partially created page was removed; the previous homepage is unchanged")
		}
		return err
	}

	if res.Demoted != nil {
		fmt.Printf("demoted previous homepage %q\n", res.Demoted.Slug)
	}
	okColor.Printf("homepage %q published with %d blocks\n", res.Page.Slug, res.BlocksCopied)
	return nil
}

func runRollback(ctx context.Context, pub *publisher.Publisher) error {
	stepColor.Print("[step 2] ")
	fmt.Println("demoting current homepage")
	page, err := pub.Rollback(ctx)
	if err != nil {
		if errors.Is(err, publisher.ErrNothingToRollback) {
			okColor.Println("no homepage is set; nothing to roll back")
			return nil
		}
		failColor.Printf("rollback failed: %v\n", err)
		return err
	}
	okColor.Printf("homepage %q demoted to draft\n", page.Slug)
	return nil
}

func main() {
	logtrace.InitLogger()

	rootCmd.Flags().BoolVar(&rollback, "rollback", false, "demote the current homepage to a draft instead of publishing")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
