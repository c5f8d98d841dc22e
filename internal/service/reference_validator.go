package service

import (
	"context"
	"fmt"

	apperrors "github.com/evalforge/evalforge/internal/pkg/errors"
)

// ExistenceChecker reports whether a record id exists within an agent
// partition.
type ExistenceChecker interface {
	Exists(ctx context.Context, agentID, recordID string) (bool, error)
}

// ReferenceValidator confirms the DataSet and MetricsConfiguration ids an
// eval run references exist before the run is persisted.
type ReferenceValidator struct {
	datasets       ExistenceChecker
	metricsConfigs ExistenceChecker
}

// NewReferenceValidator creates a reference validator over both record kinds
func NewReferenceValidator(datasets, metricsConfigs ExistenceChecker) *ReferenceValidator {
	return &ReferenceValidator{
		datasets:       datasets,
		metricsConfigs: metricsConfigs,
	}
}

// ValidateReferences fails with a validation error naming the first missing
// reference. Lookup faults propagate unchanged.
func (v *ReferenceValidator) ValidateReferences(ctx context.Context, agentID, dataSetID, metricsConfigurationID string) error {
	exists, err := v.datasets.Exists(ctx, agentID, dataSetID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.Validation(fmt.Sprintf("referenced DataSet %q does not exist for agent %q", dataSetID, agentID))
	}

	exists, err = v.metricsConfigs.Exists(ctx, agentID, metricsConfigurationID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.Validation(fmt.Sprintf("referenced MetricsConfiguration %q does not exist for agent %q", metricsConfigurationID, agentID))
	}

	return nil
}
