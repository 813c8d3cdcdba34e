package cli

import (
	"github.com/vitaplan/vitaplan/internal/scheduling/application/commands"
	"github.com/vitaplan/vitaplan/internal/scheduling/application/queries"
)

// App holds the CLI application dependencies.
type App struct {
	RunPlanHandler   *commands.RunPlanHandler
	GetPlanHandler   *queries.GetPlanHandler
	ListPlansHandler *queries.ListPlansHandler
}

var app *App

// SetApp installs the wired application for the commands to use.
func SetApp(a *App) {
	app = a
}

// GetApp returns the wired application, or nil before initialization.
func GetApp() *App {
	return app
}
