package service

import (
	"log/slog"

	"github.com/viant/afs"
)

// Option represents service option
type Option func(*Service)

// WithFs sets file system service
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithLogger sets logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
