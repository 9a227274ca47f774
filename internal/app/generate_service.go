package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/sksn/internal/ports/primary"
	"github.com/example/sksn/internal/scaffold"
)

// ErrNoORM is returned when entity artifacts are requested before an ORM is
// configured.
var ErrNoORM = scaffold.ErrNoORM

// GenerateServiceImpl implements the GenerateService interface.
type GenerateServiceImpl struct {
	*Runner
	generator *scaffold.Generator
}

// NewGenerateService creates a new GenerateService with injected dependencies.
func NewGenerateService(generator *scaffold.Generator, runner *Runner) *GenerateServiceImpl {
	return &GenerateServiceImpl{
		Runner:    runner,
		generator: generator,
	}
}

// PlanGenerate renders every entity of the schema tree and previews the
// resulting file changes.
func (s *GenerateServiceImpl) PlanGenerate(ctx context.Context, req primary.GenerateRequest) (*primary.Plan, error) {
	if req.Config == nil {
		return nil, errors.New("no configuration record loaded")
	}

	result, err := s.generator.Generate(req.Schema, scaffold.Options{
		Config:    req.Config,
		Resources: req.Resources,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", req.Schema.TableName, err)
	}
	return s.plan(ctx, result)
}

// Ensure GenerateServiceImpl implements the interface
var _ primary.GenerateService = (*GenerateServiceImpl)(nil)
