package primary

import (
	"context"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/scaffold"
)

// GenerateService defines the primary port for entity generation.
type GenerateService interface {
	Applier

	// PlanGenerate computes the artifacts for a schema tree without
	// touching the project.
	PlanGenerate(ctx context.Context, req GenerateRequest) (*Plan, error)
}

// GenerateRequest contains the parameters for generating entities.
type GenerateRequest struct {
	Config    *config.Config
	Schema    scaffold.EntitySchema
	Resources []scaffold.Resource
}
