package main

import (
	"strconv"
)

const description = `Build a Dash docset from the Kotlin standard library API reference.

Mirrors the reference into ` + "`<docset>/Contents/Resources/Documents`" + `, indexes every
class, interface, function, property, object, constructor and enum entry into
docSet.dsidx, and prints each indexed entry as "name -> kind -> path".

Environment:
  KDOC_DOCSET   docset directory (default kotlin.docset)
  KDOC_MIRROR   wget or native (default: wget when on PATH)
  KDOC_DEBUG    set to 1 for debug logging on stderr`

// CLI defines the command-line interface structure for Kong. The command
// takes no arguments or flags besides --help.
type CLI struct{}

// Bundle metadata and source.
const (
	DefaultSourceURL = "https://kotlinlang.org/api/latest/jvm/stdlib/index.html"
	DefaultDocset    = "kotlin.docset"

	bundleIdentifier = "kotlin"
	bundleName       = "Kotlin"
	platformFamily   = "kotlin"
)

// Mirror modes.
const (
	MirrorAuto   = ""
	MirrorWget   = "wget"
	MirrorNative = "native"
)

// Environment variables.
const (
	envDocset = "KDOC_DOCSET"
	envMirror = "KDOC_MIRROR"
	envDebug  = "KDOC_DEBUG"
)

// Config holds the program's settings.
type Config struct {
	DocsetRoot string
	SourceURL  string
	Mirror     string
	Debug      bool
}

// ConfigFromEnv builds a Config from environment variables read with
// getenv, falling back to defaults.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{
		DocsetRoot: DefaultDocset,
		SourceURL:  DefaultSourceURL,
		Mirror:     getenv(envMirror),
	}
	if root := getenv(envDocset); root != "" {
		cfg.DocsetRoot = root
	}
	if debug, err := strconv.ParseBool(getenv(envDebug)); err == nil {
		cfg.Debug = debug
	}
	return cfg
}
