package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"deckstudio/config"
)

// Service is the lifecycle every registered service implements.
type Service interface {
	// Name identifies the service in logs and errors.
	Name() string
	// Initialize runs once all dependencies are wired.
	Initialize(ctx context.Context) error
	// Shutdown releases the service's resources.
	Shutdown() error
}

// ConfigAware services rebuild their dependencies when settings change.
type ConfigAware interface {
	ApplyConfig(cfg config.Config) error
}

type serviceEntry struct {
	service  Service
	name     string
	critical bool // failure stops startup
}

// ServiceRegistry owns the application services and their lifecycle order.
type ServiceRegistry struct {
	ctx      context.Context
	logger   func(string)
	services []serviceEntry
	byName   map[string]Service
	mu       sync.RWMutex
}

// NewServiceRegistry creates an empty registry.
func NewServiceRegistry(ctx context.Context, logger func(string)) *ServiceRegistry {
	if logger == nil {
		logger = func(string) {}
	}
	return &ServiceRegistry{
		ctx:      ctx,
		logger:   logger,
		services: make([]serviceEntry, 0),
		byName:   make(map[string]Service),
	}
}

// Register adds a service whose initialization failure only degrades the app.
func (r *ServiceRegistry) Register(svc Service) error {
	return r.register(svc, false)
}

// RegisterCritical adds a service that must initialize for the app to start.
func (r *ServiceRegistry) RegisterCritical(svc Service) error {
	return r.register(svc, true)
}

func (r *ServiceRegistry) register(svc Service, critical bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := svc.Name()
	if _, exists := r.byName[name]; exists {
		return WrapError("ServiceRegistry", "Register", fmt.Errorf("service %q already registered", name))
	}

	r.services = append(r.services, serviceEntry{
		service:  svc,
		name:     name,
		critical: critical,
	})
	r.byName[name] = svc
	return nil
}

// Get looks a service up by name.
func (r *ServiceRegistry) Get(name string) (Service, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.byName[name]
	return svc, ok
}

func (r *ServiceRegistry) snapshot() []serviceEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]serviceEntry, len(r.services))
	copy(entries, r.services)
	return entries
}

// InitializeAll initializes services in registration order. A critical
// failure aborts; other failures are logged and startup continues.
func (r *ServiceRegistry) InitializeAll() error {
	for _, entry := range r.snapshot() {
		if err := entry.service.Initialize(r.ctx); err != nil {
			if entry.critical {
				r.logger(fmt.Sprintf("Critical service %q failed to initialize: %v", entry.name, err))
				return WrapError("ServiceRegistry", "InitializeAll", fmt.Errorf("critical service %q failed: %w", entry.name, err))
			}
			r.logger(fmt.Sprintf("Non-critical service %q failed to initialize (degraded): %v", entry.name, err))
		}
	}
	return nil
}

// ApplyConfig hands cfg to every ConfigAware service in registration order.
// All services are visited; their errors are joined.
func (r *ServiceRegistry) ApplyConfig(cfg config.Config) error {
	var errs []error
	for _, entry := range r.snapshot() {
		ca, ok := entry.service.(ConfigAware)
		if !ok {
			continue
		}
		if err := ca.ApplyConfig(cfg); err != nil {
			r.logger(fmt.Sprintf("Service %q rejected new config: %v", entry.name, err))
			errs = append(errs, WrapError(entry.name, "ApplyConfig", err))
		}
	}
	return errors.Join(errs...)
}

// ShutdownAll shuts services down in reverse registration order. Errors are
// logged and do not stop the remaining shutdowns.
func (r *ServiceRegistry) ShutdownAll() {
	entries := r.snapshot()
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if err := entry.service.Shutdown(); err != nil {
			r.logger(fmt.Sprintf("Service %q shutdown error: %v", entry.name, err))
		}
	}
}
