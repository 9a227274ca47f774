package scaffold

import (
	"fmt"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/core/effects"
)

// AuthProviders lists the supported auth providers.
var AuthProviders = []string{config.AuthClerk, config.AuthKinde}

// AddAuth sets up an auth provider. Every provider exposes getUserAuth and
// checkAuth from lib/auth/utils.ts, which generated queries and pages call.
func (g *Generator) AddAuth(cfg *config.Config, provider string) (*GeneratorResult, error) {
	if !cfg.IsNext() {
		return nil, fmt.Errorf("auth providers need the %s framework", config.FrameworkNext)
	}
	if cfg.Auth != "" {
		return nil, fmt.Errorf("auth provider %q is already configured", cfg.Auth)
	}

	next := *cfg
	next.Auth = provider
	pv := NewProjectView(&next)

	var (
		files    []struct{ tmpl, path string }
		vars     []EnvVar
		packages []string
		steps    []string
	)
	switch provider {
	case config.AuthClerk:
		files = []struct{ tmpl, path string }{
			{"clerk_utils.ts", pv.Root(AuthUtils)},
			{"clerk_middleware.ts", pv.Root("middleware.ts")},
			{"clerk_sign_in.tsx", pv.Root("app/(auth)/sign-in/[[...sign-in]]/page.tsx")},
		}
		vars = []EnvVar{
			{Key: "NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY", Value: "", Public: true},
			{Key: "CLERK_SECRET_KEY", Value: ""},
			{Key: "NEXT_PUBLIC_CLERK_SIGN_IN_URL", Value: "/sign-in", Public: true},
			{Key: "NEXT_PUBLIC_CLERK_AFTER_SIGN_IN_URL", Value: "/", Public: true},
		}
		packages = []string{"@clerk/nextjs"}
		steps = []string{"Wrap your root layout in <ClerkProvider> from @clerk/nextjs", "Set the Clerk keys in .env"}

	case config.AuthKinde:
		files = []struct{ tmpl, path string }{
			{"kinde_utils.ts", pv.Root(AuthUtils)},
			{"kinde_route.ts", pv.Root("app/api/auth/[kindeAuth]/route.ts")},
			{"kinde_sign_in.tsx", pv.Root("app/(auth)/sign-in/page.tsx")},
		}
		vars = []EnvVar{
			{Key: "KINDE_CLIENT_ID", Value: ""},
			{Key: "KINDE_CLIENT_SECRET", Value: ""},
			{Key: "KINDE_ISSUER_URL", Value: "https://your_kinde_domain.kinde.com"},
			{Key: "KINDE_SITE_URL", Value: "http://localhost:3000"},
			{Key: "KINDE_POST_LOGOUT_REDIRECT_URL", Value: "http://localhost:3000"},
			{Key: "KINDE_POST_LOGIN_REDIRECT_URL", Value: "http://localhost:3000"},
		}
		packages = []string{"@kinde-oss/kinde-auth-nextjs"}
		steps = []string{"Set the Kinde client credentials in .env"}

	default:
		return nil, fmt.Errorf("unknown auth provider %q", provider)
	}

	result := &GeneratorResult{}
	for _, f := range files {
		content, err := g.RenderProject(f.tmpl, pv)
		if err != nil {
			return nil, err
		}
		result.add(effects.FileEffect{Operation: effects.FileCreate, Path: f.path, Content: content})
	}

	envs, err := g.envEffects(&next, vars)
	if err != nil {
		return nil, err
	}
	result.add(envs...)
	result.add(effects.InstallEffect{Regular: packages})

	// tRPC was set up without auth: regenerate its helpers to add protectedProcedure.
	if cfg.HasPackage(PackageTRPC) {
		content, err := g.RenderProject("trpc_server.ts", pv)
		if err != nil {
			return nil, err
		}
		result.add(effects.FileEffect{Operation: effects.FileReplace, Path: pv.Root(TRPCServer), Content: content})
	}

	result.add(effects.ConfigEffect{Patch: config.Patch{
		Auth:        config.String(provider),
		AddPackages: []string{provider},
	}})
	result.NextSteps = append(result.NextSteps, steps...)
	return result, nil
}
