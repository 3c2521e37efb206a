package bucket

import (
	"bucketkit/core/objects"
	"bucketkit/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the bucket feature on top of a storage client.
func NewFeature(client storage.Client, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(objects.New(client, logger), logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "bucket"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
