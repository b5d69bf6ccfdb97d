package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"inventory-service/internal/adapters/secondary/postgres"
	"inventory-service/internal/core/domain"
	"inventory-service/internal/core/services"
)

const envSuperuserPassword = "INVENTORY_SUPERUSER_PASSWORD"

type superuserOptions struct {
	username     string
	email        string
	password     string
	skipExisting bool
}

var superuserOpts superuserOptions

var superuserCmd = &cobra.Command{
	Use:   "create-superuser",
	Short: "Create an administrator account",
	Long: `Create a superuser that can authenticate against the API.

The password is taken from --password or, when omitted, from the
INVENTORY_SUPERUSER_PASSWORD environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pool, err := openPool(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := services.NewUserService(postgres.NewUserRepository(pool))
		return createSuperuser(cmd.Context(), svc, superuserOpts, cmd.OutOrStdout())
	},
}

func init() {
	f := superuserCmd.Flags()
	f.StringVar(&superuserOpts.username, "username", "", "login name")
	f.StringVar(&superuserOpts.email, "email", "", "contact email")
	f.StringVar(&superuserOpts.password, "password", "", "password (default $"+envSuperuserPassword+")")
	f.BoolVar(&superuserOpts.skipExisting, "skip-existing", false, "exit successfully when the username is taken")
	_ = superuserCmd.MarkFlagRequired("username")
}

func createSuperuser(ctx context.Context, svc *services.UserService, opts superuserOptions, out io.Writer) error {
	password := opts.password
	if password == "" {
		password = os.Getenv(envSuperuserPassword)
	}

	user, err := svc.CreateSuperuser(ctx, opts.username, opts.email, password)
	if errors.Is(err, domain.ErrUserExists) && opts.skipExisting {
		log.WithField("username", opts.username).Warn("superuser already exists, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Superuser %q created.\n", user.Username)
	return nil
}
