// Package config loads marginalia's configuration.
//
// Configuration is assembled in layers, each overriding the one before:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, when one is given and exists
//  3. Environment variables prefixed with MARGINALIA_
//
// The result is validated before it is returned.
//
// Example file:
//
//	[annotation]
//	settingsKey = "annotation_comments"
//	keyPrefix = "html_annotation_"
//	conflictMessage = "Cannot have intersecting annotation regions!"
//	promptTitle = "Annotate region (%d, %d)"
//	previewWidth = 48
//
//	[logging]
//	level = "info"
//
//	[plugin]
//	callLimit = 100000
//	timeout = "5s"
package config
