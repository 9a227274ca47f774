package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"slices"
	"text/template"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/core/effects"
	scaffoldtmpl "github.com/example/sksn/internal/templates/scaffold"
)

// ErrNoORM is returned when model artifacts are requested before an ORM is
// configured.
var ErrNoORM = errors.New("no orm configured")

// Options selects what a generation run produces.
type Options struct {
	Config    *config.Config
	Resources []Resource
}

// Generator renders entity artifacts from embedded templates. It never
// touches the filesystem: everything it produces is returned as effects.
type Generator struct {
	funcs template.FuncMap
}

// NewGenerator creates a new Generator.
func NewGenerator() *Generator {
	return &Generator{
		funcs: scaffoldtmpl.TemplateFuncs(),
	}
}

// AvailableResources lists the resources a project can generate. Server
// actions and views exist only for Next.js; tRPC views also need tRPC.
func AvailableResources(cfg *config.Config) []Resource {
	if !cfg.IsNext() {
		return []Resource{ResourceModel, ResourceAPIRoute, ResourceTRPCRoute}
	}
	out := slices.Clone(AllResources)
	if cfg.HasPackage(PackageTRPC) {
		out = append(out, ResourceTRPCViews)
	}
	return out
}

// DefaultResources is what a non-interactive run generates: everything
// available except the tRPC views, which replace the default views.
func DefaultResources(cfg *config.Config) []Resource {
	return slices.DeleteFunc(AvailableResources(cfg), func(r Resource) bool {
		return r == ResourceTRPCViews
	})
}

// ExpandResources dedups the selection, adds the server actions or tRPC
// router the requested views call, and returns it in generation order.
func ExpandResources(selected []Resource) []Resource {
	want := map[Resource]bool{}
	for _, r := range selected {
		want[r] = true
	}
	if want[ResourceViews] {
		want[ResourceServerActions] = true
	}
	if want[ResourceTRPCViews] {
		want[ResourceTRPCRoute] = true
	}
	var out []Resource
	for _, r := range resourceOrder {
		if want[r] {
			out = append(out, r)
		}
	}
	return out
}

// Generate flattens the schema tree and generates every entity in
// pre-order.
func (g *Generator) Generate(root EntitySchema, opts Options) (*GeneratorResult, error) {
	result := &GeneratorResult{}
	for _, schema := range Flatten(root) {
		r, err := g.GenerateEntity(schema, opts)
		if err != nil {
			return nil, err
		}
		result.merge(r)
	}
	result.NextSteps = dedup(result.NextSteps)
	return result, nil
}

// GenerateEntity generates the requested artifacts for one flattened entity.
func (g *Generator) GenerateEntity(schema ExtendedSchema, opts Options) (*GeneratorResult, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("generator needs a configuration record")
	}
	if !cfg.HasORM() {
		return nil, ErrNoORM
	}
	resources := ExpandResources(opts.Resources)
	if len(resources) == 0 {
		return nil, errors.New("no resources selected")
	}
	if slices.Contains(resources, ResourceViews) && slices.Contains(resources, ResourceTRPCViews) {
		return nil, fmt.Errorf("%s and %s both write the entity views: pick one", ResourceViews, ResourceTRPCViews)
	}
	available := AvailableResources(cfg)
	for _, r := range resources {
		if !slices.Contains(available, r) {
			if r == ResourceTRPCViews && cfg.IsNext() {
				return nil, fmt.Errorf("resource %q needs tRPC: run 'sksn add --trpc' first", r)
			}
			return nil, fmt.Errorf("resource %q is not available for framework %q", r, cfg.Framework)
		}
	}

	v, err := buildEntityView(schema, cfg)
	if err != nil {
		return nil, err
	}

	result := &GeneratorResult{}
	if slices.Contains(resources, ResourceServerActions) && !slices.Contains(opts.Resources, ResourceServerActions) {
		result.add(effects.LogEffect{
			Level:   "info",
			Message: fmt.Sprintf("Views for %s use server actions; generating those too", v.Names.Human),
		})
	}
	if slices.Contains(opts.Resources, ResourceTRPCViews) && !slices.Contains(opts.Resources, ResourceTRPCRoute) {
		result.add(effects.LogEffect{
			Level:   "info",
			Message: fmt.Sprintf("Views for %s call its tRPC router; generating that too", v.Names.Human),
		})
	}
	for _, r := range resources {
		var err error
		switch r {
		case ResourceModel:
			err = g.generateModel(result, v, cfg)
		case ResourceAPIRoute:
			err = g.generateAPIRoute(result, v, cfg)
		case ResourceTRPCRoute:
			err = g.generateTRPCRoute(result, v, cfg)
		case ResourceServerActions:
			err = g.generateActions(result, v)
		case ResourceViews:
			err = g.generateViews(result, v)
		case ResourceTRPCViews:
			err = g.generateTRPCViews(result, v)
		}
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", schema.TableName, r, err)
		}
	}

	if schema.BelongsToUser && cfg.Auth == "" {
		result.add(effects.NoteEffect{
			Message: fmt.Sprintf("%s belong to a user but no auth provider is configured: run 'sksn add' and pick one", v.Names.Human),
		})
	}
	return result, nil
}

func (g *Generator) generateModel(r *GeneratorResult, v *entityView, cfg *config.Config) error {
	model, err := g.render("model.ts", cfg.ORM, v)
	if err != nil {
		return err
	}
	queries, err := g.render("queries.ts", cfg.ORM, v)
	if err != nil {
		return err
	}
	mutations, err := g.render("mutations.ts", cfg.ORM, v)
	if err != nil {
		return err
	}
	g.create(r, v, v.Files.Model, model)
	g.create(r, v, v.Files.Queries, queries)
	g.create(r, v, v.Files.Mutations, mutations)

	switch cfg.ORM {
	case config.ORMDrizzle:
		names := v.Names
		r.add(effects.FileEffect{
			Operation: effects.FilePatch,
			Path:      v.paths.Root(path.Join(SchemaDir, "index.ts")),
			Patch: func(existing string) (string, error) {
				return AddSchemaExport(existing, names), nil
			},
			Entity: names.Plural,
		})
		r.add(effects.InstallEffect{Regular: []string{"drizzle-zod", "zod", "nanoid"}})
		r.NextSteps = append(r.NextSteps,
			fmt.Sprintf("Run '%s' and '%s' to migrate the database", RunScript(cfg.PackageManager, "db:generate"), RunScript(cfg.PackageManager, "db:migrate")))

	case config.ORMPrisma:
		block, err := g.render("model.prisma", cfg.ORM, v)
		if err != nil {
			return err
		}
		model := v.Names.SingularPascal
		var back []BackRelation
		for _, rel := range v.Relations {
			if rel.Target.SingularPascal == model {
				continue
			}
			back = append(back, BackRelation{Model: rel.Target.SingularPascal, Field: v.Names.Camel, Type: model})
		}
		r.add(effects.FileEffect{
			Operation: effects.FilePatch,
			Path:      PrismaSchema,
			Patch: func(existing string) (string, error) {
				return MergePrismaModel(existing, model, block, back), nil
			},
			Entity: v.Names.Plural,
		})
		r.add(effects.InstallEffect{Regular: []string{"zod"}})
		r.add(effects.CommandEffect{Args: []string{"prisma", "format"}, Description: "Formatting prisma schema"})
		r.add(effects.CommandEffect{Args: []string{"prisma", "generate"}, Description: "Generating prisma client"})
		r.NextSteps = append(r.NextSteps, "Run 'npx prisma db push' to sync the database")
	}
	return nil
}

func (g *Generator) generateAPIRoute(r *GeneratorResult, v *entityView, cfg *config.Config) error {
	if cfg.IsNext() {
		content, err := g.render("route_next.ts", scaffoldtmpl.Shared, v)
		if err != nil {
			return err
		}
		g.create(r, v, v.Files.NextRoute, content)
		return nil
	}

	content, err := g.render("route_express.ts", scaffoldtmpl.Shared, v)
	if err != nil {
		return err
	}
	g.create(r, v, v.Files.ExpressRoute, content)
	r.add(effects.InstallEffect{Regular: []string{"express", "zod"}, Dev: []string{"@types/express"}})
	r.add(effects.NoteEffect{
		Message: fmt.Sprintf("Mount the %s router: app.use(\"/api/%s\", %sRouter)", v.Names.HumanLower, v.Names.Kebab, v.Names.Camel),
	})
	return nil
}

func (g *Generator) generateTRPCRoute(r *GeneratorResult, v *entityView, cfg *config.Config) error {
	content, err := g.render("trpc_router.ts", scaffoldtmpl.Shared, v)
	if err != nil {
		return err
	}
	g.create(r, v, v.Files.TRPCRouter, content)

	seed, err := g.RenderProject("trpc_app_router.ts", ProjectView{importer: v.importer})
	if err != nil {
		return err
	}
	names := v.Names
	r.add(effects.FileEffect{
		Operation: effects.FilePatch,
		Path:      v.paths.Root(TRPCRootRouter),
		Content:   seed,
		Patch: func(existing string) (string, error) {
			return AddRouterToRoot(existing, names)
		},
		Entity: names.Plural,
	})
	if !cfg.HasPackage(PackageTRPC) {
		r.add(effects.NoteEffect{Message: "tRPC is not set up yet: run 'sksn add' and pick trpc"})
	}
	return nil
}

func (g *Generator) generateActions(r *GeneratorResult, v *entityView) error {
	content, err := g.render("actions.ts", scaffoldtmpl.Shared, v)
	if err != nil {
		return err
	}
	g.create(r, v, v.Files.Actions, content)
	return nil
}

func (g *Generator) generateViews(r *GeneratorResult, v *entityView) error {
	files := []struct {
		kind string
		rel  string
	}{
		{"page.tsx", v.Files.Page},
		{"list.tsx", v.Files.List},
		{"form.tsx", v.Files.Form},
		{"optimistic.tsx", v.Files.Hook},
	}
	for _, f := range files {
		content, err := g.renderView(f.kind, v)
		if err != nil {
			return err
		}
		g.create(r, v, f.rel, content)
	}

	if err := g.ensureSharedViews(r, v); err != nil {
		return err
	}

	g.addViewPackages(r, v)
	return nil
}

// generateTRPCViews renders the page, list and form calling the entity's
// tRPC router through react-query, and provisions the client they import.
func (g *Generator) generateTRPCViews(r *GeneratorResult, v *entityView) error {
	files := []struct {
		kind string
		rel  string
	}{
		{"trpc_page.tsx", v.Files.Page},
		{"trpc_list.tsx", v.Files.List},
		{"trpc_form.tsx", v.Files.Form},
	}
	for _, f := range files {
		content, err := g.renderView(f.kind, v)
		if err != nil {
			return err
		}
		g.create(r, v, f.rel, content)
	}

	if err := g.ensureSharedViews(r, v); err != nil {
		return err
	}
	if err := g.ensureTRPCClient(r, ProjectView{importer: v.importer}); err != nil {
		return err
	}
	for _, rel := range v.Relations {
		r.NextSteps = append(r.NextSteps, fmt.Sprintf("The %s form lists %s through trpc.%s: generate its trpc_route if it has none",
			v.Names.HumanSingularLower, rel.Target.HumanLower, rel.Target.Camel))
	}
	g.addViewPackages(r, v)
	return nil
}

// ensureTRPCClient provisions the react-query client and its provider.
// Existing files are left alone.
func (g *Generator) ensureTRPCClient(r *GeneratorResult, pv ProjectView) error {
	files := []struct {
		tmpl string
		rel  string
	}{
		{"trpc_client.ts", TRPCClient},
		{"trpc_provider.tsx", TRPCProvider},
	}
	for _, f := range files {
		content, err := g.RenderProject(f.tmpl, pv)
		if err != nil {
			return err
		}
		r.add(effects.FileEffect{Operation: effects.FileEnsure, Path: pv.Root(f.rel), Content: content})
	}
	r.add(effects.InstallEffect{Regular: []string{"@trpc/react-query", "@trpc/client", "@tanstack/react-query", "superjson"}})
	r.NextSteps = append(r.NextSteps, "Wrap your root layout in <TrpcProvider> from lib/trpc/Provider to call routers from client components")
	return nil
}

func (g *Generator) addViewPackages(r *GeneratorResult, v *entityView) {
	regular := []string{"lucide-react", "sonner"}
	components := []string{"button", "input", "label", "dialog", "sonner"}
	if v.HasBooleans {
		components = append(components, "checkbox")
	}
	if len(v.Relations) > 0 {
		components = append(components, "select")
	}
	if v.HasDates {
		regular = append(regular, "date-fns")
		components = append(components, "popover", "calendar")
	}
	r.add(effects.InstallEffect{Regular: regular})
	r.add(effects.ComponentEffect{Components: components})
	r.NextSteps = append(r.NextSteps, "Render <Toaster /> from components/ui/sonner in your root layout")
}

// ensureSharedViews provisions the helpers every generated form and list
// imports. Existing files are left alone.
func (g *Generator) ensureSharedViews(r *GeneratorResult, v *entityView) error {
	helpers := []struct {
		kind string
		rel  string
	}{
		{"modal.tsx", ModalComponent},
		{"back_button.tsx", BackButton},
		{"validated_form.tsx", ValidatedForm},
		{"loading.tsx", "app/loading.tsx"},
	}
	for _, h := range helpers {
		content, err := g.renderView(h.kind, v)
		if err != nil {
			return err
		}
		r.add(effects.FileEffect{Operation: effects.FileEnsure, Path: v.paths.Root(h.rel), Content: content})
	}

	seed, err := g.renderView("utils.ts", v)
	if err != nil {
		return err
	}
	snippet, err := g.renderView("utils_actions.ts", v)
	if err != nil {
		return err
	}
	r.add(effects.FileEffect{
		Operation: effects.FilePatch,
		Path:      v.paths.Root(LibUtils),
		Content:   seed,
		Patch: func(existing string) (string, error) {
			return AppendOptimisticTypes(existing, snippet), nil
		},
	})
	r.add(effects.InstallEffect{Regular: []string{"clsx", "tailwind-merge"}})
	return nil
}

func (g *Generator) create(r *GeneratorResult, v *entityView, rel, content string) {
	r.add(effects.FileEffect{
		Operation: effects.FileCreate,
		Path:      v.paths.Root(rel),
		Content:   content,
		Entity:    v.Names.Plural,
	})
}

// render renders an entity template for a technology.
func (g *Generator) render(kind, tech string, data any) (string, error) {
	content, err := scaffoldtmpl.Lookup(kind, tech)
	if err != nil {
		return "", err
	}
	return g.execute(tech+"/"+kind, content, data)
}

func (g *Generator) renderView(kind string, data any) (string, error) {
	content, err := scaffoldtmpl.View(kind)
	if err != nil {
		return "", err
	}
	return g.execute("views/"+kind, content, data)
}

// RenderProject renders a project setup template.
func (g *Generator) RenderProject(name string, data any) (string, error) {
	content, err := scaffoldtmpl.Project(name)
	if err != nil {
		return "", err
	}
	return g.execute("project/"+name, content, data)
}

func (g *Generator) execute(name, content string, data any) (string, error) {
	tmpl, err := scaffoldtmpl.Parse(name, content, g.funcs)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
