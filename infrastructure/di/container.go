// Package di wires the application together.
package di

import (
	"stringanalyzer/application/commands/bus"
	"stringanalyzer/application/ports"
	querybus "stringanalyzer/application/queries/bus"
	"stringanalyzer/infrastructure/config"
	"stringanalyzer/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	LogLevel   zap.AtomicLevel
	Metrics    *observability.Metrics
	Tracing    *observability.TracerProvider
	Store      ports.StringRepository
	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus
}
