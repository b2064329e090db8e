package memwt

import (
	"testing"

	"github.com/kvbridge/kvbridge/lib/engine"
	enginetesting "github.com/kvbridge/kvbridge/lib/engine/testing"
)

func Test(t *testing.T) {
	enginetesting.RunSessionTests(t, "MemWT", func(fixtures []enginetesting.Fixture) engine.Session {
		e := NewEngine()
		for _, f := range fixtures {
			if code := e.Create(f.URI, f.Config); code != engine.CodeOK {
				t.Fatalf("Create(%s) failed with code %d", f.URI, code)
			}
			if code := e.SetStatistics(f.URI, f.Stats); code != engine.CodeOK {
				t.Fatalf("SetStatistics(%s) failed with code %d", f.URI, code)
			}
		}
		return e
	})
}
