package scaffold

import (
	"errors"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/core/effects"
)

// AddTRPC sets up the tRPC server helpers, the root router entity routers
// are merged into, and the HTTP handler.
func (g *Generator) AddTRPC(cfg *config.Config) (*GeneratorResult, error) {
	if cfg.HasPackage(PackageTRPC) {
		return nil, errors.New("trpc is already configured")
	}
	pv := NewProjectView(cfg)

	handler := "app/api/trpc/[trpc]/route.ts"
	if !cfg.IsNext() {
		handler = "routes/trpc.ts"
	}
	files := []struct {
		tmpl string
		path string
		op   effects.FileOp
	}{
		{"trpc_server.ts", TRPCServer, effects.FileCreate},
		{"trpc_app_router.ts", TRPCRootRouter, effects.FileEnsure},
		{"trpc_handler.ts", handler, effects.FileCreate},
	}

	result := &GeneratorResult{}
	for _, f := range files {
		content, err := g.RenderProject(f.tmpl, pv)
		if err != nil {
			return nil, err
		}
		result.add(effects.FileEffect{Operation: f.op, Path: pv.Root(f.path), Content: content})
	}

	regular := []string{"@trpc/server", "@trpc/client", "superjson", "zod"}
	if cfg.IsNext() {
		if err := g.ensureTRPCClient(result, pv); err != nil {
			return nil, err
		}
	} else {
		result.NextSteps = append(result.NextSteps, `Mount the tRPC handler: app.use("/api/trpc", trpcMiddleware)`)
	}
	result.add(effects.InstallEffect{Regular: regular})
	result.add(effects.ConfigEffect{Patch: config.Patch{AddPackages: []string{PackageTRPC}}})
	result.NextSteps = append(result.NextSteps, "Generate an entity with the trpc_route resource to add routers")
	return result, nil
}
