// Package bootstrap runs a service's lifecycle: it validates the typed
// config, initializes logging, starts registered components in order, runs
// configure callbacks and hooks, prints a startup summary, waits for a
// signal and shuts everything down in reverse.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(database.NewComponent(cfg.Database, log))
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    // wire repositories, services and routes
//	    return nil
//	})
//	err = app.Run(ctx)
//
// RunTask runs the same startup sequence for finite jobs such as migrate.
package bootstrap
