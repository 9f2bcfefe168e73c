package log

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

const (
	LedgerMonitoring = "ledger_mod" // Accounting engine module log
	StoreMonitoring  = "store_mod"  // Word store / session module log
	RouterMonitoring = "router_mod" // Call router module log
)

var root atomic.Value

func init() {
	root.Store(NewLogger(DiscardHandler()))
}

func ParseLevel(lvl string) (slog.Level, error) {
	switch strings.ToUpper(lvl) {
	case "MAX", "MAXVERBOSITY":
		return levelMaxVerbosity, nil
	case "TRACE":
		return LevelTrace, nil
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "CRIT", "CRITICAL":
		return LevelCrit, nil
	default:
		return 0, fmt.Errorf("invalid level: %s", lvl)
	}
}

func InitLogger(logLevel string) {
	logLvl, err := ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	SetDefault(NewLogger(NewTerminalHandlerWithLevel(os.Stderr, logLvl)))
}

// SetDefault sets the default global logger
func SetDefault(l Logger) {
	root.Store(l)
}

// Root returns the root logger
func Root() Logger {
	return root.Load().(Logger)
}

var defaultKnownModules = []string{LedgerMonitoring, StoreMonitoring, RouterMonitoring}

// moduleEnabled keeps track of whether a module's trace/debug logging is enabled.
var moduleEnabled = initModules(defaultKnownModules)

func initModules(moduleList []string) map[string]bool {
	moduleMap := make(map[string]bool, len(moduleList))
	for _, module := range moduleList {
		moduleMap[module] = false
	}
	return moduleMap
}

// EnableModule enables trace/debug logging for the specified module.
func EnableModule(module string) {
	moduleEnabled[module] = true
}

// EnableModules enables a comma-separated list of modules.
func EnableModules(modules string) {
	for _, module := range strings.Split(modules, ",") {
		if module = strings.TrimSpace(module); module != "" {
			EnableModule(module)
		}
	}
}

// DisableModule disables trace/debug logging for the specified module.
func DisableModule(module string) {
	moduleEnabled[module] = false
}

func isModuleEnabled(module string) bool {
	enabled, ok := moduleEnabled[module]
	return ok && enabled
}

// Trace logs a message at the trace level for a specific module.
func Trace(module string, msg string, ctx ...interface{}) {
	if !isModuleEnabled(module) {
		return
	}
	newCtx := append([]interface{}{"module", module}, ctx...)
	Root().Write(LevelTrace, module, msg, newCtx...)
}

// Debug logs a message at the debug level for a specific module.
func Debug(module string, msg string, ctx ...interface{}) {
	if !isModuleEnabled(module) {
		return
	}
	Root().Write(slog.LevelDebug, module, msg, ctx...)
}

// The rest of the logging functions (Info, Warn, Error, Crit) dont filter on module
func Info(module string, msg string, ctx ...interface{}) {
	Root().Write(slog.LevelInfo, module, msg, ctx...)
}

func Warn(module string, msg string, ctx ...interface{}) {
	Root().Write(slog.LevelWarn, module, msg, ctx...)
}

func Error(module string, msg string, ctx ...interface{}) {
	Root().Write(slog.LevelError, module, msg, ctx...)
}

func Crit(module string, msg string, ctx ...interface{}) {
	Root().Write(LevelCrit, module, msg, ctx...)
	os.Exit(1)
}

func New(ctx ...interface{}) Logger {
	return Root().With(ctx...)
}
