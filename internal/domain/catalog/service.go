package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "catalog").Logger()}
}

type CreateTestInput struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Active *bool   `json:"active,omitempty"`
}

func (s *Service) Create(ctx context.Context, in CreateTestInput) (*TestDefinition, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if in.Code == "" {
		return nil, fmt.Errorf("code is required")
	}
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}

	if existing, err := s.repo.GetByCode(ctx, in.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("test code %q already exists", in.Code)
	}

	td := &TestDefinition{
		Code:   in.Code,
		Name:   in.Name,
		Price:  in.Price,
		Active: true,
	}
	if in.Active != nil {
		td.Active = *in.Active
	}

	if err := s.repo.Create(ctx, td); err != nil {
		return nil, fmt.Errorf("create test definition: %w", err)
	}

	s.logger.Info().Str("test_id", td.ID.String()).Str("code", td.Code).Msg("test definition created")
	return td, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*TestDefinition, error) {
	return s.repo.GetByID(ctx, id)
}

type UpdateTestInput struct {
	Name   *string  `json:"name,omitempty"`
	Price  *float64 `json:"price,omitempty"`
	Active *bool    `json:"active,omitempty"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateTestInput) (*TestDefinition, error) {
	td, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name must not be empty")
		}
		td.Name = name
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, fmt.Errorf("price must not be negative")
		}
		td.Price = *in.Price
	}
	if in.Active != nil {
		td.Active = *in.Active
	}

	if err := s.repo.Update(ctx, td); err != nil {
		return nil, fmt.Errorf("update test definition: %w", err)
	}
	return td, nil
}

// Delete removes a catalog entry. Existing orders are unaffected because
// line items carry their own snapshot of code, name and price.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("test not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*TestDefinition, int, error) {
	return s.repo.List(ctx, activeOnly, limit, offset)
}
