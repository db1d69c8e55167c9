package analysis

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stratuslabs/stratus/internal/weather"
	"github.com/stratuslabs/stratus/pkg/models"
)

// LocationResolver is the slice of the weather service the analysis service
// needs: name resolution and snapshot assembly.
type LocationResolver interface {
	Locate(ctx context.Context, lat, lon float64) (models.Location, error)
	Snapshot(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error)
}

// Submission is everything the submit endpoint echoes back: the job handle,
// the placeholder result, and the resolved locations and weather.
type Submission struct {
	Job            models.Job
	Placeholder    models.AnalysisResult
	UserLocation   models.Location
	TargetLocation models.Location
	Weather        models.WeatherSnapshot
}

// Service orchestrates analysis submission: it resolves both locations,
// fetches the target's weather snapshot, and hands the assembled request to
// the registry. Polling passes straight through.
type Service struct {
	registry *Registry
	weather  LocationResolver
}

// NewService creates an analysis Service.
func NewService(registry *Registry, resolver LocationResolver) *Service {
	return &Service{registry: registry, weather: resolver}
}

// Submit builds the AnalysisRequest for the given coordinate pairs and
// registers it. The weather fetch happens here, synchronously — without a
// snapshot there is nothing to analyze, so a provider failure fails the
// submission rather than producing a doomed job.
func (s *Service) Submit(ctx context.Context, userLat, userLon, targetLat, targetLon float64) (*Submission, error) {
	userLoc, err := s.weather.Locate(ctx, userLat, userLon)
	if err != nil {
		return nil, fmt.Errorf("resolving user location: %w", err)
	}

	targetLoc, err := s.weather.Locate(ctx, targetLat, targetLon)
	if err != nil {
		return nil, fmt.Errorf("resolving target location: %w", err)
	}

	snapshot, err := s.weather.Snapshot(ctx, targetLat, targetLon)
	if err != nil {
		return nil, fmt.Errorf("fetching weather: %w", err)
	}

	job, placeholder := s.registry.Submit(models.AnalysisRequest{
		UserLocation:   userLoc,
		TargetLocation: targetLoc,
		Weather:        snapshot,
	})

	return &Submission{
		Job:            job,
		Placeholder:    placeholder,
		UserLocation:   userLoc,
		TargetLocation: targetLoc,
		Weather:        snapshot,
	}, nil
}

// Poll reports job state; see Registry.Poll for the delivery contract.
func (s *Service) Poll(id uuid.UUID) (models.AnalysisResult, bool, error) {
	return s.registry.Poll(id)
}

var _ LocationResolver = (*weather.Service)(nil)
