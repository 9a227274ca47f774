package scaffold

import (
	"path"
	"strings"

	"github.com/example/sksn/internal/config"
)

// Project-relative locations shared by generators.
const (
	SchemaDir      = "lib/db/schema"
	ServicesDir    = "lib/api"
	ActionsDir     = "lib/actions"
	DBIndex        = "lib/db/index.ts"
	DBMigrate      = "lib/db/migrate.ts"
	MigrationsDir  = "lib/db/migrations"
	AuthUtils      = "lib/auth/utils.ts"
	LibUtils       = "lib/utils.ts"
	EnvSchema      = "lib/env.mjs"
	TRPCServer     = "lib/server/trpc.ts"
	TRPCRouterDir  = "lib/server/routers"
	TRPCRootRouter = "lib/server/routers/_app.ts"
	TRPCClient     = "lib/trpc/client.ts"
	TRPCProvider   = "lib/trpc/Provider.tsx"
	ValidatedForm  = "lib/hooks/useValidatedForm.tsx"
	ModalComponent = "components/shared/Modal.tsx"
	BackButton     = "components/shared/BackButton.tsx"
	PrismaSchema   = "prisma/schema.prisma"
	DrizzleConfig  = "drizzle.config.ts"
	PackageJSON    = "package.json"
	DotEnv         = ".env"
)

// Paths resolves project-relative locations through the configured source
// root and import alias.
type Paths struct {
	hasSrc bool
	alias  string
}

// NewPaths builds Paths from a configuration record.
func NewPaths(cfg *config.Config) Paths {
	alias := cfg.Alias
	if alias == "" {
		alias = "@"
	}
	return Paths{hasSrc: cfg.HasSrc, alias: alias}
}

// Root returns the on-disk path of rel, under src/ when the project has one.
func (p Paths) Root(rel string) string {
	if p.hasSrc {
		return path.Join("src", rel)
	}
	return rel
}

// Import returns the aliased module specifier for rel, without a
// TypeScript extension.
func (p Paths) Import(rel string) string {
	return p.alias + "/" + trimExt(rel)
}

func trimExt(rel string) string {
	for _, ext := range []string{".tsx", ".ts", ".mjs"} {
		if strings.HasSuffix(rel, ext) {
			return strings.TrimSuffix(rel, ext)
		}
	}
	return rel
}

// EntityFiles holds the project-relative (unrooted) artifact locations of
// one entity.
type EntityFiles struct {
	Model        string
	Queries      string
	Mutations    string
	Actions      string
	NextRoute    string
	ExpressRoute string
	TRPCRouter   string
	Page         string
	List         string
	Form         string
	Hook         string
}

// FilesFor returns the artifact locations of an entity.
func FilesFor(n Names) EntityFiles {
	return EntityFiles{
		Model:        path.Join(SchemaDir, n.Camel+".ts"),
		Queries:      path.Join(ServicesDir, n.Camel, "queries.ts"),
		Mutations:    path.Join(ServicesDir, n.Camel, "mutations.ts"),
		Actions:      path.Join(ActionsDir, n.Camel+".ts"),
		NextRoute:    path.Join("app/api", n.Kebab, "route.ts"),
		ExpressRoute: path.Join("routes", n.Camel+".ts"),
		TRPCRouter:   path.Join(TRPCRouterDir, n.Camel+".ts"),
		Page:         path.Join("app/(app)", n.Kebab, "page.tsx"),
		List:         path.Join("components", n.Camel, n.SingularPascal+"List.tsx"),
		Form:         path.Join("components", n.Camel, n.SingularPascal+"Form.tsx"),
		Hook:         path.Join("app/(app)", n.Kebab, "useOptimistic"+n.Pascal+".tsx"),
	}
}
