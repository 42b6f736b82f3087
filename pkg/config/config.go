// Package config is for app wide settings that are unmarshalled
// from Viper (see: pkg/fragmatch). Every threshold the engine uses is a
// named field here. Nothing is kept in package level variables.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is put in front of environment variables, so
// FRAGMATCH_MATCH_SIMILARITY sets match.similarity.
const EnvPrefix = "FRAGMATCH"

// CV are settings for computing characteristic vectors
type CV struct {
	// residues per window
	Window int `mapstructure:"window"`

	// drop chains that are geometric copies of an earlier chain
	DedupChains bool `mapstructure:"dedup-chains"`

	// tolerances when deciding two chains are copies
	DedupDistTol  float64 `mapstructure:"dedup-dist-tol"`
	DedupAngleTol float64 `mapstructure:"dedup-angle-tol"`
}

// Relation settings control the pairwise relation matrix
type Relation struct {
	// only compute relations between neighbouring windows
	AdjacentOnly bool `mapstructure:"adjacent-only"`

	// drop pairs further apart than this. 0 keeps everything.
	MaxDistance float64 `mapstructure:"max-distance"`

	// tighter cutoff when both windows look like strand. 0 switches it off.
	MaxStrandDistance float64 `mapstructure:"max-strand-distance"`

	// give angles a sign from the inter-window vector
	Signed bool `mapstructure:"signed"`
}

// Band is where one kind of secondary structure sits. Falloffs are
// separate below and above the mean.
type Band struct {
	CVL        float64 `mapstructure:"cvl"`
	CVLBelow   float64 `mapstructure:"cvl-below"`
	CVLAbove   float64 `mapstructure:"cvl-above"`
	Angle      float64 `mapstructure:"angle"`
	AngleBelow float64 `mapstructure:"angle-below"`
	AngleAbove float64 `mapstructure:"angle-above"`
}

// SSType holds the classifier settings. The numbers were tuned by hand
// on real proteins and there is nothing magic about them.
type SSType struct {
	Helix  Band `mapstructure:"helix"`
	Strand Band `mapstructure:"strand"`

	CVLWeight        float64 `mapstructure:"cvl-weight"`
	AngleWeight      float64 `mapstructure:"angle-weight"`
	MaxScore         float64 `mapstructure:"max-score"`
	HelixStrictness  float64 `mapstructure:"helix-strictness"`
	StrandStrictness float64 `mapstructure:"strand-strictness"`

	// windows three apart with the same label, but an angle this far
	// from the label's mean, are forced to coil
	GuardAngle float64 `mapstructure:"guard-angle"`

	MinHelixLen  int  `mapstructure:"min-helix-len"`
	MinStrandLen int  `mapstructure:"min-strand-len"`
	GlyProJoints bool `mapstructure:"glypro-joints"`

	// second round, partners in space
	ProximityCutoff  float64 `mapstructure:"proximity-cutoff"`
	PairingDistance  float64 `mapstructure:"pairing-distance"`
	ExternalAngleMax float64 `mapstructure:"external-angle-max"`
	PairingBonus     float64 `mapstructure:"pairing-bonus"`
	MaxPartners      int     `mapstructure:"max-partners"`
	IsolationPenalty float64 `mapstructure:"isolation-penalty"`
	MinExternal      int     `mapstructure:"min-external"`

	// fraction of close pairs that must look like pairing before two
	// strands go into one sheet
	SheetFraction float64 `mapstructure:"sheet-fraction"`
}

// Match settings are for searching a target for a reference
type Match struct {
	// 0 to 100, how close a placement must be. Higher keeps fewer.
	Similarity float64 `mapstructure:"similarity"`
	KMin       int     `mapstructure:"k-min"`
	KMax       int     `mapstructure:"k-max"`
	BeamFactor int     `mapstructure:"beam-factor"`

	// percent cutoffs on dissimilarity within a fragment and between
	// fragments
	ContinuousCutoff float64 `mapstructure:"continuous-cutoff"`
	JumpCutoff       float64 `mapstructure:"jump-cutoff"`

	SameSSWeight    float64 `mapstructure:"same-ss-weight"`
	SameSheetWeight float64 `mapstructure:"same-sheet-weight"`
	DedupOverlap    float64 `mapstructure:"dedup-overlap"`

	// target must have exactly as many residues as the reference. This
	// is the strict reading of the size rule. Off, a target only needs
	// at least as many.
	StrictSize bool `mapstructure:"strict-size"`

	// placed fragments must keep chain and sequence order
	Connected bool `mapstructure:"connected"`

	MinFragmentCVs int  `mapstructure:"min-fragment-cvs"`
	IncludeCoil    bool `mapstructure:"include-coil"`

	// one letter query, X or - match anything. Empty means no check.
	// A query not as long as the fragments is aligned to them.
	Sequence  string `mapstructure:"sequence"`
	Disulfide bool   `mapstructure:"disulfide"`

	MaxSolutions int `mapstructure:"max-solutions"`
}

// Batch is for running many targets
type Batch struct {
	Workers int `mapstructure:"workers"`
}

// Config is the root-level settings struct and is a mix
// of settings available in a settings file and those
// available from the command line
type Config struct {
	Debug    bool     `mapstructure:"debug"`
	CV       CV       `mapstructure:"cv"`
	Relation Relation `mapstructure:"relation"`
	SSType   SSType   `mapstructure:"sstype"`
	Match    Match    `mapstructure:"match"`
	Batch    Batch    `mapstructure:"batch"`
}

// Default returns the settings we use when nobody says otherwise.
func Default() Config {
	return Config{
		CV: CV{
			Window:        3,
			DedupChains:   true,
			DedupDistTol:  0.05,
			DedupAngleTol: 0.5,
		},
		Relation: Relation{
			MaxDistance:       20,
			MaxStrandDistance: 0,
		},
		SSType: SSType{
			Helix: Band{
				CVL: 2.2, CVLBelow: 0.18, CVLAbove: 0.18,
				Angle: 20, AngleBelow: 10, AngleAbove: 15,
			},
			Strand: Band{
				CVL: 1.39, CVLBelow: 0.24, CVLAbove: 0.24,
				Angle: 54, AngleBelow: 25, AngleAbove: 25,
			},
			CVLWeight:        0.6,
			AngleWeight:      0.4,
			MaxScore:         1.5,
			HelixStrictness:  0.2,
			StrandStrictness: 0.3,
			GuardAngle:       50,
			MinHelixLen:      3,
			MinStrandLen:     3,
			GlyProJoints:     true,
			ProximityCutoff:  10,
			PairingDistance:  6,
			ExternalAngleMax: 50,
			PairingBonus:     0.3,
			MaxPartners:      2,
			IsolationPenalty: 0.5,
			MinExternal:      1,
			SheetFraction:    0.35,
		},
		Match: Match{
			Similarity:       50,
			KMin:             5,
			KMax:             200,
			BeamFactor:       5,
			ContinuousCutoff: 20,
			JumpCutoff:       25,
			SameSSWeight:     1.25,
			SameSheetWeight:  1.5,
			DedupOverlap:     0.95,
			Connected:        true,
			MinFragmentCVs:   2,
			MaxSolutions:     50,
		},
		Batch: Batch{Workers: 4},
	}
}

// setDefaults tells viper about every field of rv, so environment
// variables are seen for keys that are not in a file.
func setDefaults(v *viper.Viper, prefix string, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		key := rt.Field(i).Tag.Get("mapstructure")
		if prefix != "" {
			key = prefix + "." + key
		}
		f := rv.Field(i)
		if f.Kind() == reflect.Struct {
			setDefaults(v, key, f)
			continue
		}
		v.SetDefault(key, f.Interface())
	}
}

// Load fills a Config from v on top of Default(). If v was given a
// config file, it is read here.
func Load(v *viper.Viper) (Config, error) {
	c := Default()
	setDefaults(v, "", reflect.ValueOf(c))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("reading settings: %w", err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode settings: %w", err)
	}
	return c, c.Check()
}

// Check catches settings the engine cannot work with.
func (c *Config) Check() error {
	switch {
	case c.CV.Window < 1:
		return fmt.Errorf("cv.window must be at least 1, got %d", c.CV.Window)
	case c.Match.Similarity < 0 || c.Match.Similarity > 100:
		return fmt.Errorf("match.similarity must be 0 to 100, got %g", c.Match.Similarity)
	case c.Match.KMin < 1 || c.Match.KMax < c.Match.KMin:
		return fmt.Errorf("need 1 <= match.k-min <= match.k-max, got %d %d", c.Match.KMin, c.Match.KMax)
	case c.Match.BeamFactor < 1:
		return fmt.Errorf("match.beam-factor must be at least 1")
	case c.Batch.Workers < 1:
		return fmt.Errorf("batch.workers must be at least 1")
	}
	return nil
}
