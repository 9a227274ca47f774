package cli

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/sksn/internal/app"
	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/ports/primary"
	"github.com/example/sksn/internal/scaffold"
)

type generateFlags struct {
	schemaFile    string
	table         string
	fields        string
	index         string
	belongsToUser bool
	noTimestamps  bool
	resources     []string
}

// GenerateCmd returns the generate command
func GenerateCmd() *cobra.Command {
	var (
		flags generateFlags
		run   runFlags
	)

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"g"},
		Short:   "Generate model, routes and views for an entity",
		Long: `Generate the artifacts of an entity and its child entities.

The schema comes from one of:
  - the interactive schema builder (default)
  - a YAML schema tree (--schema)
  - a single table from flags (--table and --fields)

Field DSL for --fields: name:type, comma separated. Types: string, text,
number, float, boolean, date, timestamp, json, references. A trailing "?"
makes a field nullable; for references the name is the referenced table and
a trailing "!" cascades deletes.

Resources: model, api_route, trpc_route, server_actions, views, and
views_trpc when tRPC is set up (views implies server_actions; views_trpc
implies trpc_route and replaces views).

Examples:
  sksn generate
  sksn generate --table books --fields "title:string,price:float?,authors:references!"
  sksn generate --schema schema.yaml --resources model,trpc_route --yes
  sksn generate --table books --fields "title:string" --resources model,views_trpc
  sksn generate --table posts --fields "title:string" --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newCommand(cmd, run)
			if err != nil {
				return err
			}
			return c.finish(runGenerate(c, flags))
		},
	}

	cmd.Flags().StringVar(&flags.schemaFile, "schema", "", "YAML schema tree to generate")
	cmd.Flags().StringVarP(&flags.table, "table", "t", "", "Table name (plural, snake_case)")
	cmd.Flags().StringVarP(&flags.fields, "fields", "f", "", "Field definitions (name:type,...)")
	cmd.Flags().StringVar(&flags.index, "index", "", "Field to index")
	cmd.Flags().BoolVar(&flags.belongsToUser, "belongs-to-user", false, "Scope rows to the signed-in user")
	cmd.Flags().BoolVar(&flags.noTimestamps, "no-timestamps", false, "Omit createdAt/updatedAt columns")
	cmd.Flags().StringSliceVarP(&flags.resources, "resources", "r", nil, "Resources to generate (default: all available except views_trpc)")
	run.register(cmd)

	return cmd
}

func runGenerate(c *command, flags generateFlags) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	if !cfg.HasORM() {
		c.console.Warn("No ORM configured: entities need drizzle or prisma")
		ok, err := c.confirm("Add an ORM now?")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: run 'sksn add --orm drizzle' first", app.ErrNoORM)
		}
		if err := runAdd(c, cfg, addFlags{orm: "?"}); err != nil {
			return err
		}
		if c.flags.dryRun {
			return nil
		}
		if cfg, err = config.LoadConfig(c.root); err != nil {
			return err
		}
	}

	resources, err := selectResources(c, cfg, flags.resources)
	if err != nil {
		return err
	}

	known := existingTables(c.root, cfg)
	schema, err := loadSchema(c, cfg, flags, known)
	if err != nil {
		return err
	}
	if err := scaffold.Validate(*schema, known); err != nil {
		return err
	}

	project, err := c.open(cfg)
	if err != nil {
		return err
	}
	defer project.Close()

	plan, err := project.Generate.PlanGenerate(c.ctx, primary.GenerateRequest{
		Config:    cfg,
		Schema:    *schema,
		Resources: resources,
	})
	if err != nil {
		return err
	}

	c.console.Printf("Generating %s for %s\n\n", joinResources(scaffold.ExpandResources(resources)), describeTree(*schema))
	return c.apply(project.Generate, plan)
}

func selectResources(c *command, cfg *config.Config, requested []string) ([]scaffold.Resource, error) {
	available := scaffold.AvailableResources(cfg)
	defaults := scaffold.DefaultResources(cfg)
	if len(requested) == 0 {
		if c.flags.yes {
			return defaults, nil
		}
		names := make([]string, len(available))
		for i, r := range available {
			names[i] = string(r)
		}
		preselected := make([]string, len(defaults))
		for i, r := range defaults {
			preselected[i] = string(r)
		}
		picked, err := c.prompt.MultiSelect("Which resources should be generated?", names, preselected)
		if err != nil {
			return nil, err
		}
		requested = picked
	}

	var out []scaffold.Resource
	for _, name := range requested {
		r := scaffold.Resource(strings.TrimSpace(name))
		if !slices.Contains(available, r) {
			return nil, fmt.Errorf("resource %q is not available (want one of %s)", name, joinResources(available))
		}
		out = append(out, r)
	}
	return out, nil
}

func loadSchema(c *command, cfg *config.Config, flags generateFlags, known []string) (*scaffold.EntitySchema, error) {
	switch {
	case flags.schemaFile != "":
		return scaffold.LoadSchemaFile(flags.schemaFile)
	case flags.table != "":
		schema, err := scaffold.BuildEntitySchema(flags.table, flags.fields, flags.index, flags.belongsToUser)
		if err != nil {
			return nil, err
		}
		schema.IncludeTimestamps = !flags.noTimestamps
		return schema, nil
	case c.flags.yes:
		return nil, fmt.Errorf("--yes needs a schema: pass --schema or --table and --fields")
	default:
		return newSchemaBuilder(c.prompt, cfg, known).Build()
	}
}

var prismaModelPattern = regexp.MustCompile(`(?m)^model\s+(\w+)\s*\{`)

// existingTables lists the tables already modeled in the project, used to
// offer and validate reference targets.
func existingTables(root string, cfg *config.Config) []string {
	paths := scaffold.NewPaths(cfg)
	var tables []string

	switch cfg.ORM {
	case config.ORMDrizzle:
		entries, err := os.ReadDir(filepath.Join(root, filepath.FromSlash(paths.Root(scaffold.SchemaDir))))
		if err != nil {
			return nil
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || path.Ext(name) != ".ts" || name == "index.ts" {
				continue
			}
			tables = append(tables, scaffold.ToSnakeCase(strings.TrimSuffix(name, ".ts")))
		}

	case config.ORMPrisma:
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(scaffold.PrismaSchema)))
		if err != nil {
			return nil
		}
		for _, m := range prismaModelPattern.FindAllStringSubmatch(string(data), -1) {
			tables = append(tables, scaffold.Pluralize(scaffold.ToSnakeCase(m[1])))
		}
	}
	return tables
}

func joinResources(resources []scaffold.Resource) string {
	names := make([]string, len(resources))
	for i, r := range resources {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

func describeTree(root scaffold.EntitySchema) string {
	var names []string
	for _, s := range scaffold.Flatten(root) {
		names = append(names, s.TableName)
	}
	return strings.Join(names, ", ")
}
