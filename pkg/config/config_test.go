package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"

	"github.com/andrew-torda/fragmatch/pkg/config"
)

func TestDefaultIsValid(t *testing.T) {
	c := config.Default()
	if err := c.Check(); err != nil {
		t.Fatal(err)
	}
	if c.CV.Window != 3 || c.SSType.SheetFraction != 0.35 || c.Match.DedupOverlap != 0.95 {
		t.Errorf("unexpected defaults %+v", c)
	}
}

func TestLoadNothing(t *testing.T) {
	c, err := config.Load(viper.New())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(config.Default(), c); diff != "" {
		t.Errorf("empty viper should give defaults (-want +got):\n%s", diff)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "settings.yaml")
	yaml := `
cv:
  window: 4
sstype:
  helix:
    cvl: 2.3
match:
  similarity: 80
  sequence: AXC-
`
	if err := os.WriteFile(fname, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FRAGMATCH_BATCH_WORKERS", "9")
	t.Setenv("FRAGMATCH_MATCH_K_MAX", "300")
	v := viper.New()
	v.SetConfigFile(fname)
	c, err := config.Load(v)
	if err != nil {
		t.Fatal(err)
	}
	want := config.Default()
	want.CV.Window = 4
	want.SSType.Helix.CVL = 2.3
	want.Match.Similarity = 80
	want.Match.Sequence = "AXC-"
	want.Match.KMax = 300
	want.Batch.Workers = 9
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCheck(t *testing.T) {
	breakers := []func(*config.Config){
		func(c *config.Config) { c.CV.Window = 0 },
		func(c *config.Config) { c.Match.Similarity = 101 },
		func(c *config.Config) { c.Match.KMin = 10; c.Match.KMax = 5 },
		func(c *config.Config) { c.Match.BeamFactor = 0 },
		func(c *config.Config) { c.Batch.Workers = 0 },
	}
	for i, brk := range breakers {
		c := config.Default()
		brk(&c)
		if err := c.Check(); err == nil {
			t.Errorf("case %d: expected an error", i)
		}
	}
}
