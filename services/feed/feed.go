// Package feed reads the doctor list from the upstream JSON feed, either over
// HTTP or from a local file.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jiyaaat/Doctor-listings/config"
	"github.com/jiyaaat/Doctor-listings/logger"
	"github.com/jiyaaat/Doctor-listings/services/directory"
)

// maxFeedSize caps how much of a feed response is read.
const maxFeedSize = 20 * 1024 * 1024

var ErrNoSourceConfigured = errors.New("no feed url or feed path configured")

var (
	_ directory.Source = (*HTTPSource)(nil)
	_ directory.Source = (*FileSource)(nil)
	_ directory.Source = (*LoggingSource)(nil)
)

// NewSource picks the HTTP feed when a URL is configured and the local file otherwise.
func NewSource(logger logger.Logger, cfg *config.Config) (directory.Source, error) {
	var source directory.Source
	var location string

	switch {
	case cfg.GetFeedURL() != "":
		location = cfg.GetFeedURL()
		source = NewHTTPSource(location, logger, WithTimeout(cfg.GetFeedTimeout()))
	case cfg.GetFeedPath() != "":
		location = cfg.GetFeedPath()
		source = NewFileSource(location, logger)
	default:
		logger.Error("could not create feed source", "err", ErrNoSourceConfigured.Error())
		return nil, ErrNoSourceConfigured
	}

	logger.Info("using doctor feed", "location", location)
	return NewLoggingSource(source, location, logger), nil
}

func decode(r io.Reader, logger logger.Logger) ([]directory.Doctor, error) {
	var doctors []directory.Doctor
	if err := json.NewDecoder(io.LimitReader(r, maxFeedSize)).Decode(&doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctor feed: %w", err)
	}

	return sanitize(doctors, logger), nil
}

// sanitize drops records that cannot be addressed by id; the first record wins on duplicates.
func sanitize(doctors []directory.Doctor, logger logger.Logger) []directory.Doctor {
	seen := make(map[string]struct{}, len(doctors))
	valid := make([]directory.Doctor, 0, len(doctors))

	for i, doctor := range doctors {
		if doctor.ID == "" {
			logger.Warn("skipping doctor without id", "position", i, "name", doctor.Name)
			continue
		}
		if _, ok := seen[doctor.ID]; ok {
			logger.Warn("skipping doctor with duplicate id", "position", i, "id", doctor.ID)
			continue
		}
		seen[doctor.ID] = struct{}{}
		valid = append(valid, doctor)
	}

	return valid
}

// LoggingSource records every fetch with its size and duration.
type LoggingSource struct {
	inner    directory.Source
	location string
	logger   logger.Logger
}

func NewLoggingSource(inner directory.Source, location string, logger logger.Logger) *LoggingSource {
	return &LoggingSource{inner: inner, location: location, logger: logger}
}

func (s *LoggingSource) Fetch(ctx context.Context) ([]directory.Doctor, error) {
	start := time.Now()
	doctors, err := s.inner.Fetch(ctx)
	if err != nil {
		s.logger.Error("fetch", "location", s.location, "duration", time.Since(start).String(), "err", err.Error())
		return nil, err
	}

	s.logger.Info("fetch", "location", s.location, "doctors", len(doctors), "duration", time.Since(start).String())
	return doctors, nil
}

func (s *LoggingSource) Close() error {
	return s.inner.Close()
}
