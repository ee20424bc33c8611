// Package config loads the application settings from the environment and
// manages the runtime parameters file that the setup wizard completes.
//
// Environment settings are loaded once per type and cached. A .env file in
// the working directory is read on first use:
//
//	var s config.Settings
//	config.MustLoad(&s)
//
// Runtime parameters live in <BASE_DIR>/config/config.yml. Until every
// required key is set the application is not configured and the dispatcher
// routes every request to the setup wizard:
//
//	svc, err := config.New(s)
//	if !svc.IsConfigured() {
//		return svc.Config(x)
//	}
package config
