// make-admin changes the role of an existing account. Roles are never
// writable over HTTP, so this is the only way to create an administrator.
//
//	make-admin --email someone@example.com [--role admin|user]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"sweet-shop/internal/config"
	"sweet-shop/internal/database"
	"sweet-shop/internal/domain"
	"sweet-shop/internal/logger"
	"sweet-shop/internal/repository"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var email, role string

	flagSet := pflag.NewFlagSet("make-admin", pflag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.Usage = func() {
		fmt.Fprintln(out, "usage: make-admin --email <address> [--role admin|user]")
		flagSet.PrintDefaults()
	}
	flagSet.StringVar(&email, "email", "", "email of the account to update (required)")
	flagSet.StringVar(&role, "role", string(domain.RoleAdmin), "role to assign: admin or user")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if email == "" && flagSet.NArg() > 0 {
		email = flagSet.Arg(0)
	}
	if email == "" {
		flagSet.Usage()
		return errors.New("--email is required")
	}

	target := domain.Role(role)
	if !target.Valid() {
		return fmt.Errorf("unknown role %q", role)
	}

	cfg := config.Load()
	log := logger.Must(cfg.Server.Env)
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbService, err := database.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer dbService.Close()

	users := repository.NewUserRepository(dbService.DB())

	before, err := users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("no user with email %q", email)
		}
		return err
	}

	fmt.Fprintln(out, "Current user details:")
	printUser(out, before)

	after, err := users.UpdateRole(ctx, email, target)
	if err != nil {
		return err
	}

	log.Info("User role updated",
		zap.String("user_id", after.ID.String()),
		zap.String("from", string(before.Role)),
		zap.String("to", string(after.Role)),
	)

	fmt.Fprintln(out, "\nUpdated user details:")
	printUser(out, after)
	return nil
}

func printUser(out io.Writer, user *domain.User) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tROLE\tFIRST NAME\tLAST NAME")
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", user.Email, user.Role, user.FirstName, user.LastName)
	tw.Flush()
}
