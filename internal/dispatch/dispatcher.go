// Package dispatch routes named operations to the service layer and wraps
// every outcome in a Result envelope.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/RecipeBox/internal/models"
	"github.com/Kerhoff/RecipeBox/internal/service"
)

const (
	msgNotAuthenticated = "User not authenticated"
	msgDevOnly          = "DevTools are only available in development mode"
)

// Result is the envelope returned for every operation
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// HandlerFunc runs one operation. user is nil for operations that do not
// require a session.
type HandlerFunc func(ctx context.Context, user *models.User, args json.RawMessage) (any, error)

type operation struct {
	handler HandlerFunc
	message string
	public  bool
	devOnly bool
}

// Dispatcher holds the closed set of operations
type Dispatcher struct {
	svc     *service.Service
	logger  *logrus.Logger
	dev     bool
	ops     map[string]operation
	metrics *metrics
}

// New creates a dispatcher with every operation registered. Metrics are
// registered on reg when it is not nil.
func New(svc *service.Service, logger *logrus.Logger, dev bool, reg prometheus.Registerer) *Dispatcher {
	d := &Dispatcher{
		svc:     svc,
		logger:  logger,
		dev:     dev,
		ops:     make(map[string]operation),
		metrics: newMetrics(reg),
	}
	d.registerOperations()
	return d
}

func (d *Dispatcher) register(name string, op operation) {
	d.ops[name] = op
	d.logger.Debugf("Registered operation: %s", name)
}

// Has reports whether name is a known operation
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.ops[name]
	return ok
}

// Operations returns the registered operation names in sorted order
func (d *Dispatcher) Operations() []string {
	names := make([]string, 0, len(d.ops))
	for name := range d.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the named operation with JSON arguments. It never returns
// an error; failures are reported in the Result.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args json.RawMessage) Result {
	start := time.Now()

	op, ok := d.ops[name]
	if !ok {
		d.logger.WithField("operation", name).Warn("Unknown operation")
		d.metrics.observe("unknown", "unknown", time.Since(start))
		return Result{Success: false, Message: "Unknown operation: " + name}
	}

	data, err := d.run(ctx, op, args)
	elapsed := time.Since(start)
	outcome := outcomeOf(err)
	d.metrics.observe(name, outcome, elapsed)

	entry := d.logger.WithFields(logrus.Fields{
		"operation": name,
		"outcome":   outcome,
		"duration":  elapsed,
	})

	if err != nil {
		if errors.Is(err, service.ErrStorage) {
			entry.WithError(err).Error("Operation failed")
		} else {
			entry.WithField("error", service.Message(err)).Warn("Operation rejected")
		}
		return Result{Success: false, Message: service.Message(err)}
	}

	entry.Info("Operation completed")
	return Result{Success: true, Message: op.message, Data: data}
}

func (d *Dispatcher) run(ctx context.Context, op operation, args json.RawMessage) (any, error) {
	var user *models.User
	if !op.public {
		user = d.svc.CurrentUser(ctx)
		if user == nil {
			return nil, service.NewError(service.ErrAuth, msgNotAuthenticated)
		}
	}
	if op.devOnly && !d.dev {
		return nil, service.NewError(service.ErrAuth, msgDevOnly)
	}
	return op.handler(ctx, user, args)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, service.ErrValidation):
		return "validation_error"
	case errors.Is(err, service.ErrConflict):
		return "conflict"
	case errors.Is(err, service.ErrAuth):
		return "auth_error"
	case errors.Is(err, service.ErrNotFoundOrForbidden):
		return "not_found"
	default:
		return "storage_error"
	}
}
