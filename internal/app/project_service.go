package app

import (
	"context"

	"github.com/example/sksn/internal/config"
	"github.com/example/sksn/internal/ports/primary"
	"github.com/example/sksn/internal/scaffold"
)

// ProjectServiceImpl implements the ProjectService interface.
type ProjectServiceImpl struct {
	*Runner
	generator *scaffold.Generator
}

// NewProjectService creates a new ProjectService with injected dependencies.
func NewProjectService(generator *scaffold.Generator, runner *Runner) *ProjectServiceImpl {
	return &ProjectServiceImpl{
		Runner:    runner,
		generator: generator,
	}
}

// PlanInit computes the base project files and configuration record.
func (s *ProjectServiceImpl) PlanInit(ctx context.Context, opts scaffold.InitOptions) (*primary.Plan, error) {
	result, err := s.generator.InitProject(opts)
	if err != nil {
		return nil, err
	}
	return s.plan(ctx, result)
}

// PlanAddORM computes the drizzle or prisma setup.
func (s *ProjectServiceImpl) PlanAddORM(ctx context.Context, cfg *config.Config, opts scaffold.ORMOptions) (*primary.Plan, error) {
	result, err := s.generator.AddORM(cfg, opts)
	if err != nil {
		return nil, err
	}
	return s.plan(ctx, result)
}

// PlanAddAuth computes the setup of an auth provider.
func (s *ProjectServiceImpl) PlanAddAuth(ctx context.Context, cfg *config.Config, provider string) (*primary.Plan, error) {
	result, err := s.generator.AddAuth(cfg, provider)
	if err != nil {
		return nil, err
	}
	return s.plan(ctx, result)
}

// PlanAddTRPC computes the tRPC setup.
func (s *ProjectServiceImpl) PlanAddTRPC(ctx context.Context, cfg *config.Config) (*primary.Plan, error) {
	result, err := s.generator.AddTRPC(cfg)
	if err != nil {
		return nil, err
	}
	return s.plan(ctx, result)
}

// Ensure ProjectServiceImpl implements the interface
var _ primary.ProjectService = (*ProjectServiceImpl)(nil)
