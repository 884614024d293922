// Package config loads the settings of the rohan command and its engine.
//
// Settings are layered, later layers overriding earlier ones:
//
//  1. built-in defaults (Default)
//  2. a TOML or YAML file chosen by extension
//  3. environment variables with the ROHAN_ prefix
//
// Layers are merged as plain maps by the loader package and then decoded
// field by field into Config, so a bad value is reported with the dotted
// path of the setting that carried it:
//
//	cfg, err := config.Load("rohan.toml")
//	var verr *config.ValidationError
//	if errors.As(err, &verr) {
//		fmt.Println(verr.Field) // e.g. "script.timeout"
//	}
//
// Environment variables map onto paths as ROHAN_SECTION_SETTING_NAME to
// section.settingName. ROHAN_LOG_LEVEL and ROHAN_LOG_FORMAT are shorthands
// for logging.level and logging.format.
package config
