package inspect

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"view-sync/core/reconcile"
	"view-sync/core/sectioned"
	"view-sync/core/surface"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	err     error
}

// NewFeature creates the inspector feature over its own in-memory model.
func NewFeature(policy string, configure reconcile.ConfigureFunc, logger *zap.Logger) *Feature {
	model := sectioned.NewModel()
	surf := surface.New(model, nil, logger)

	svc, err := NewService(model, surf, policy, configure, logger)
	if err != nil {
		return &Feature{err: err}
	}
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// NewFeatureFromService wraps an externally wired service, typically the
// store-backed one.
func NewFeatureFromService(svc *Service) *Feature {
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "inspect"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.err != nil {
		return f.err
	}
	f.handler.RegisterRoutes(app)
	return nil
}
