package service

import (
	"errors"

	"github.com/noah-isme/science-hub-api/internal/repository"
	appErrors "github.com/noah-isme/science-hub-api/pkg/errors"
)

// workflowRecorder counts workflow outcomes. MetricsService implements it.
type workflowRecorder interface {
	RecordWorkflow(event, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordWorkflow(string, string) {}

func recorderOrNoop(r workflowRecorder) workflowRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func validationError(err error, message string) error {
	if err == nil {
		return appErrors.Clone(appErrors.ErrValidation, message)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}
