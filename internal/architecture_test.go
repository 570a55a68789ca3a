package internal

import (
	"testing"

	"github.com/kcmvp/archunit"
)

func TestArchitecture(t *testing.T) {
	core := archunit.Packages("core", []string{".../internal/hue/..."})
	cli := archunit.Packages("cli", []string{".../internal/cli"})
	config := archunit.Packages("config", []string{".../internal/config"})
	scripting := archunit.Packages("scripting", []string{".../internal/lua/..."})
	ledger := archunit.Packages("ledger", []string{".../internal/ledger", ".../internal/db"})
	metrics := archunit.Packages("metrics", []string{".../internal/metrics"})

	violation := func(rule string, err error) {
		if err != nil {
			t.Errorf("Architecture violation: %s: %v", rule, err)
		}
	}

	// Rule 1: the bridge client knows nothing about how it is driven or decorated
	violation("hue depends on cli", core.ShouldNotReferLayers(cli))
	violation("hue depends on config", core.ShouldNotReferLayers(config))
	violation("hue depends on lua", core.ShouldNotReferLayers(scripting))
	violation("hue depends on ledger", core.ShouldNotReferLayers(ledger))
	violation("hue depends on metrics", core.ShouldNotReferLayers(metrics))

	// Rule 2: scripting and decorators are wired by the CLI, never the reverse
	violation("lua depends on cli", scripting.ShouldNotReferLayers(cli))
	violation("ledger depends on cli", ledger.ShouldNotReferLayers(cli))
	violation("metrics depends on cli", metrics.ShouldNotReferLayers(cli))
}

func TestLayersPresent(t *testing.T) {
	core := archunit.Packages("core", []string{".../internal/hue"})
	if len(core.Packages()) == 0 {
		t.Error("No hue package found")
	}
}
