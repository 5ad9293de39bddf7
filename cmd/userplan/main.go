// Command userplan is an operator tool that moves an account between the
// free and pro plans, e.g. for refunds or support cases.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"utilhub/internal/domain"
	"utilhub/internal/infra"
	"utilhub/internal/sqlinline"
)

func main() {
	var (
		emailFlag string
		planFlag  string
	)
	flag.StringVar(&emailFlag, "email", "", "account email to update")
	flag.StringVar(&planFlag, "plan", string(domain.PlanFree), "target plan (free or pro)")
	flag.Parse()

	email := strings.TrimSpace(strings.ToLower(emailFlag))
	if email == "" {
		fmt.Fprintln(os.Stderr, "-email is required")
		os.Exit(1)
	}
	plan := strings.TrimSpace(strings.ToLower(planFlag))
	switch domain.Plan(plan) {
	case domain.PlanFree, domain.PlanPro:
	default:
		fmt.Fprintf(os.Stderr, "unsupported plan %q, use free or pro\n", planFlag)
		os.Exit(1)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create pool: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	ctxExec, cancelExec := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelExec()

	tag, err := runner.Exec(ctxExec, sqlinline.QUpdatePlanByEmail, email, plan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to update plan: %v\n", err)
		os.Exit(1)
	}
	if tag.RowsAffected() == 0 {
		fmt.Fprintf(os.Stderr, "no account found for %s\n", email)
		os.Exit(1)
	}
	fmt.Printf("%s is now on the %s plan\n", email, plan)
}
