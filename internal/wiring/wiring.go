// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/typegen/internal/adapters/cas"
	_ "go.trai.ch/typegen/internal/adapters/config"
	_ "go.trai.ch/typegen/internal/adapters/fs"
	_ "go.trai.ch/typegen/internal/adapters/logger"
	_ "go.trai.ch/typegen/internal/adapters/watcher"
	// Register strategies.
	_ "go.trai.ch/typegen/internal/adapters/properties"
	// Register app nodes.
	_ "go.trai.ch/typegen/internal/app"
)
