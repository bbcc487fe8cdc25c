package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gauravm26/vishmaker/internal/config"
	"github.com/gauravm26/vishmaker/pkg/project"
	"github.com/gauravm26/vishmaker/pkg/store"
)

// projectCommand creates the project management command. Subcommands talk to
// the configured store directly, which only makes sense against a persistent
// backend such as Mongo.
func (c *CLI) projectCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage stored projects",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (TOML)")

	cmd.AddCommand(c.projectListCommand(&configPath))
	cmd.AddCommand(c.projectCreateCommand(&configPath))
	cmd.AddCommand(c.projectShowCommand(&configPath))
	cmd.AddCommand(c.projectDeleteCommand(&configPath))

	return cmd
}

// openStore loads the config and connects to the configured store, warning
// when the ephemeral memory backend is selected.
func (c *CLI) openStore(cmd *cobra.Command, configPath string) (store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Store.Backend == config.StoreMemory {
		printWarning("Using the in-memory store; changes will not persist")
	}
	return newStore(cmd.Context(), cfg)
}

func (c *CLI) projectListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			projects, err := st.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				printInfo("No projects")
				return nil
			}
			for _, p := range projects {
				flows, hlrs, llrs, tests := p.CountEntities()
				printKeyValue(p.Name, p.ID)
				printDetail("%d flows, %d HLRs, %d LLRs, %d test cases · created %s",
					flows, hlrs, llrs, tests, p.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func (c *CLI) projectCreateCommand(configPath *string) *cobra.Command {
	var description, flowsFile string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			p := &project.Project{Name: args[0], Description: description}
			if flowsFile != "" {
				in, err := loadInput(flowsFile)
				if err != nil {
					return err
				}
				p.Flows = in.Flows
			}

			created, err := st.CreateProject(cmd.Context(), p)
			if err != nil {
				return err
			}
			printSuccess("Created project %s", created.Name)
			printDetail("id: %s", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "project description")
	cmd.Flags().StringVar(&flowsFile, "flows", "", "JSON requirements file to seed the project with")

	return cmd
}

func (c *CLI) projectShowCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print a project as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			p, err := st.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
}

func (c *CLI) projectDeleteCommand(configPath *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to delete without --force")
			}
			st, err := c.openStore(cmd, *configPath)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.DeleteProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted project %s", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm deletion")

	return cmd
}
