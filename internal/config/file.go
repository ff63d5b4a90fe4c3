package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-avatar/pkg/animator"
	"github.com/teslashibe/go-avatar/pkg/clips"
	"github.com/teslashibe/go-avatar/pkg/kinematics"
)

// Settings is everything a simulator needs to build controllers.
type Settings struct {
	Animator   animator.Config
	Kinematics kinematics.Config
	Library    animator.Library
	Catalog    *clips.Catalog
}

// File is the YAML tuning file. Omitted fields keep their defaults.
//
//	variant_policy: fail
//	animator:
//	  run_min_speed: 5
//	  transitions:
//	    idle: 250ms
//	probe:
//	  ray_offset: 1
//	library:
//	  male:
//	    idle: {name: m_idle, length: 2s, loop: true}
//	emotes:
//	  - {name: wave, length: 2s}
type File struct {
	VariantPolicy string                            `yaml:"variant_policy"`
	Animator      AnimatorFile                      `yaml:"animator"`
	Probe         ProbeFile                         `yaml:"probe"`
	Library       map[string]animator.LocomotionSet `yaml:"library"`
	Emotes        []*clips.Clip                     `yaml:"emotes"`
}

// AnimatorFile overrides animator.Config fields.
type AnimatorFile struct {
	RunMinSpeed     *float64 `yaml:"run_min_speed"`
	WalkMinSpeed    *float64 `yaml:"walk_min_speed"`
	WalkSpeedFactor *float64 `yaml:"walk_speed_factor"`
	RunSpeedFactor  *float64 `yaml:"run_speed_factor"`
	MovementEpsilon *float64 `yaml:"movement_epsilon"`
	SkeletonRoot    string   `yaml:"skeleton_root"`
	FemaleMarker    string   `yaml:"female_marker"`
	MaleMarker      string   `yaml:"male_marker"`

	Transitions TransitionsFile `yaml:"transitions"`
}

// TransitionsFile overrides crossfade durations ("150ms", "0.5s").
type TransitionsFile struct {
	Idle       *time.Duration `yaml:"idle"`
	Walk       *time.Duration `yaml:"walk"`
	Run        *time.Duration `yaml:"run"`
	Jump       *time.Duration `yaml:"jump"`
	Fall       *time.Duration `yaml:"fall"`
	AirExit    *time.Duration `yaml:"air_exit"`
	Expression *time.Duration `yaml:"expression"`
}

// ProbeFile overrides the ground probe geometry.
type ProbeFile struct {
	RayOffset       *float64 `yaml:"ray_offset"`
	ElevationOffset *float64 `yaml:"elevation_offset"`
}

// Defaults returns the built-in settings: default animator tuning, probe
// geometry for a root at the feet, the stock library and emote catalog.
func Defaults() *Settings {
	cat := clips.NewCatalog()
	for _, c := range DefaultEmotes() {
		cat.Register(c)
	}
	return &Settings{
		Animator:   animator.DefaultConfig(),
		Kinematics: kinematics.FeetConfig(),
		Library:    DefaultLibrary(),
		Catalog:    cat,
	}
}

// DefaultLibrary returns the stock humanoid locomotion clips.
func DefaultLibrary() animator.Library {
	set := func(prefix string) animator.LocomotionSet {
		return animator.LocomotionSet{
			Idle: clips.MustNew(prefix+"_idle", 4*time.Second, true),
			Walk: clips.MustNew(prefix+"_walk", 1100*time.Millisecond, true),
			Run:  clips.MustNew(prefix+"_run", 700*time.Millisecond, true),
			Jump: clips.MustNew(prefix+"_jump", 600*time.Millisecond, false),
			Fall: clips.MustNew(prefix+"_fall", 800*time.Millisecond, true),
		}
	}
	return animator.Library{
		animator.VariantMale:   set("m"),
		animator.VariantFemale: set("f"),
	}
}

// DefaultEmotes returns the stock expression clips.
func DefaultEmotes() []*clips.Clip {
	return []*clips.Clip{
		{Name: "wave", Description: "Friendly hand wave", Length: 2 * time.Second},
		{Name: "clap", Description: "Applause", Length: 3 * time.Second},
		{Name: "dance_robot", Description: "Stiff robot dance", Length: 6 * time.Second, Loop: true},
		{Name: "dance_disco", Description: "Disco finger point", Length: 5 * time.Second, Loop: true},
		{Name: "facepalm", Description: "Hand to forehead", Length: 1500 * time.Millisecond},
		{Name: "shrug", Description: "Shoulders up, no idea", Length: 1200 * time.Millisecond},
	}
}

// Load reads a YAML tuning file on top of Defaults. An empty path returns
// the defaults.
func Load(path string) (*Settings, error) {
	if path == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML tuning data on top of Defaults.
func Parse(data []byte) (*Settings, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	s := Defaults()
	if err := f.apply(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (f *File) apply(s *Settings) error {
	if f.VariantPolicy != "" {
		p, err := animator.ParseVariantPolicy(f.VariantPolicy)
		if err != nil {
			return err
		}
		s.Animator.VariantPolicy = p
	}

	a := &s.Animator
	setFloat(&a.RunMinSpeed, f.Animator.RunMinSpeed)
	setFloat(&a.WalkMinSpeed, f.Animator.WalkMinSpeed)
	setFloat(&a.WalkSpeedFactor, f.Animator.WalkSpeedFactor)
	setFloat(&a.RunSpeedFactor, f.Animator.RunSpeedFactor)
	setFloat(&a.MovementEpsilon, f.Animator.MovementEpsilon)
	setString(&a.SkeletonRoot, f.Animator.SkeletonRoot)
	setString(&a.FemaleMarker, f.Animator.FemaleMarker)
	setString(&a.MaleMarker, f.Animator.MaleMarker)

	t := f.Animator.Transitions
	setDuration(&a.IdleTransition, t.Idle)
	setDuration(&a.WalkTransition, t.Walk)
	setDuration(&a.RunTransition, t.Run)
	setDuration(&a.JumpTransition, t.Jump)
	setDuration(&a.FallTransition, t.Fall)
	setDuration(&a.AirExitTransition, t.AirExit)
	setDuration(&a.ExpressionTransition, t.Expression)

	if a.WalkMinSpeed > a.RunMinSpeed {
		return fmt.Errorf("walk_min_speed %.2f above run_min_speed %.2f", a.WalkMinSpeed, a.RunMinSpeed)
	}

	setFloat(&s.Kinematics.RayOffset, f.Probe.RayOffset)
	setFloat(&s.Kinematics.ElevationOffset, f.Probe.ElevationOffset)
	if s.Kinematics.CastDistance() <= 0 {
		return fmt.Errorf("probe cast distance %.2f must be positive", s.Kinematics.CastDistance())
	}

	for key, set := range f.Library {
		v, err := parseVariant(key)
		if err != nil {
			return err
		}
		if err := set.Validate(); err != nil {
			return fmt.Errorf("library %s: %w", key, err)
		}
		s.Library[v] = set
	}

	if len(f.Emotes) > 0 {
		s.Catalog = clips.NewCatalog()
		for _, c := range f.Emotes {
			if err := s.Catalog.Register(c); err != nil {
				return fmt.Errorf("emote: %w", err)
			}
		}
	}
	return nil
}

func parseVariant(s string) (animator.Variant, error) {
	switch strings.ToLower(s) {
	case "male":
		return animator.VariantMale, nil
	case "female":
		return animator.VariantFemale, nil
	default:
		return animator.VariantUnknown, fmt.Errorf("library: %w %q", animator.ErrUnknownVariant, s)
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v *time.Duration) {
	if v != nil {
		*dst = *v
	}
}
