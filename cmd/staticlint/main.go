// The staticlint binary bundles the static checks the project runs in CI:
// standard go/analysis passes, third-party analyzers, the project's own
// noexit analyzer and a configurable subset of staticcheck.
//
// The staticcheck subset is read from a JSON file (config.json next to the
// executable, or the path in STATICLINT_CONFIG):
//
//	{"Staticcheck": ["SA1000", "SA4006", "SA5011"]}
//
// A missing file enables every SA analyzer.
//
// Usage:
//
//	staticlint ./...
package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/staticcheck"

	"github.com/patric-chuzhbe/exercisetracker/cmd/staticlint/noexit"
)

// ConfigFileName is looked up next to the executable.
const ConfigFileName = `config.json`

// ConfigData describes the configuration file.
type ConfigData struct {
	Staticcheck []string
}

func loadConfig() (*ConfigData, error) {
	path := os.Getenv("STATICLINT_CONFIG")
	if path == "" {
		executable, err := os.Executable()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(filepath.Dir(executable), ConfigFileName)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg ConfigData
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func staticcheckAnalyzers(cfg *ConfigData) []*analysis.Analyzer {
	enabled := map[string]bool{}
	if cfg != nil {
		for _, name := range cfg.Staticcheck {
			enabled[name] = true
		}
	}

	var result []*analysis.Analyzer
	for _, v := range staticcheck.Analyzers {
		name := v.Analyzer.Name
		if (cfg == nil && strings.HasPrefix(name, "SA")) || enabled[name] {
			result = append(result, v.Analyzer)
		}
	}

	return result
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	checks := []*analysis.Analyzer{
		copylock.Analyzer,     // locks passed by value, e.g. a copied store
		errorsas.Analyzer,     // errors.As with a non-pointer target
		httpresponse.Analyzer, // response used before the error check
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		printf.Analyzer,
		structtag.Analyzer, // json/env/validate tags are load-bearing here
		unmarshal.Analyzer,
		unreachable.Analyzer,

		ineffassign.Analyzer,
		nilerr.Analyzer,

		noexit.Analyzer,
	}
	checks = append(checks, staticcheckAnalyzers(cfg)...)

	multichecker.Main(checks...)
}
