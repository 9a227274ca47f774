package primary

import (
	"context"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/scaffold"
)

// ProjectService defines the primary port for project setup.
type ProjectService interface {
	Applier

	// PlanInit computes the base project files and configuration record.
	PlanInit(ctx context.Context, opts scaffold.InitOptions) (*Plan, error)

	// PlanAddORM computes the drizzle or prisma setup.
	PlanAddORM(ctx context.Context, cfg *config.Config, opts scaffold.ORMOptions) (*Plan, error)

	// PlanAddAuth computes the setup of an auth provider.
	PlanAddAuth(ctx context.Context, cfg *config.Config, provider string) (*Plan, error)

	// PlanAddTRPC computes the tRPC setup.
	PlanAddTRPC(ctx context.Context, cfg *config.Config) (*Plan, error)
}
