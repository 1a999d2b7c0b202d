package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"doctrack/backend/internal/config"
	"doctrack/backend/internal/database"
	"doctrack/backend/internal/models"
	"doctrack/backend/internal/services"
)

type CreateAdminOptions struct {
	Username    string
	Password    string
	Fullname    string
	Designation string
}

// NewCreateAdminCommand bootstraps an Admin account directly in the
// database, since registration through the API already needs an admin.
func NewCreateAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateAdminOptions{}
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an Admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client, err := database.Connect(cmd.Context(), cfg.MongoURI)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			db := client.Database(cfg.DBName)
			if err := database.EnsureIndexes(cmd.Context(), db); err != nil {
				return err
			}
			users := services.NewUserService(database.NewUserRepository(db))
			return runCreateAdmin(cmd.Context(), users, opts, rootOpts.Format, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Username, "username", "", "login name (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "initial password (required)")
	cmd.Flags().StringVar(&opts.Fullname, "fullname", "Administrator", "display name")
	cmd.Flags().StringVar(&opts.Designation, "designation", "", "optional designation")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func runCreateAdmin(ctx context.Context, users *services.UserService, opts *CreateAdminOptions, format string, w io.Writer) error {
	u, err := users.CreateAdmin(ctx, services.Registration{
		Fullname:    opts.Fullname,
		Username:    opts.Username,
		Password:    opts.Password,
		Designation: models.Designation(opts.Designation),
	})
	if err != nil {
		return err
	}
	if format == "json" {
		return json.NewEncoder(w).Encode(u)
	}
	_, err = fmt.Fprintf(w, "Created admin %s (%s)\n", u.Username, u.ID.Hex())
	return err
}
