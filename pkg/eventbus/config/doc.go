/*
Package config reads bus settings from YAML or JSON documents.

# Overview

Config wraps a decoded map[string]any and exposes typed accessors that fall
back to a default when a key is missing or holds the wrong type. Settings
files stay forgiving: a typo'd value leaves the default in place instead of
failing startup.

# Basic Usage

	cfg, err := config.FromFile("eventbus.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	name := cfg.String("name", "default")
	metrics := cfg.Bool("metrics", false)

Nested sections are read with Sub:

	buses := cfg.Sub("buses")
	for _, name := range buses.Keys() {
	    opts := eventbus.OptionsFromConfig(buses.Sub(name))
	    // ...
	}

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
