// Package scenario describes pool workloads as files and replays them against a pool.
//
// A scenario declares media items and a list of steps such as play, pause or moving the cursor.
// Files may be written in TOML, YAML or JSON.
package scenario

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/where"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Extensions are the scenario file extensions, in lookup order.
var Extensions = []string{".toml", ".yaml", ".yml", ".json"}

// Action is what a step does.
type Action string

const (
	ActionRegister   Action = "register"
	ActionReregister Action = "reregister"
	ActionPreload    Action = "preload"
	ActionPlay       Action = "play"
	ActionPause      Action = "pause"
	ActionMute       Action = "mute"
	ActionUnmute     Action = "unmute"
	ActionSeek       Action = "seek"
	ActionRewind     Action = "rewind"
	ActionBless      Action = "bless"
	ActionCursor     Action = "cursor"
	ActionMount      Action = "mount"
	ActionUnmount    Action = "unmount"
)

// Actions lists every known action.
func Actions() []Action {
	return []Action{
		ActionRegister,
		ActionReregister,
		ActionPreload,
		ActionPlay,
		ActionPause,
		ActionMute,
		ActionUnmute,
		ActionSeek,
		ActionRewind,
		ActionBless,
		ActionCursor,
		ActionMount,
		ActionUnmount,
	}
}

// NeedsItem reports whether the action targets a single item.
func (a Action) NeedsItem() bool {
	switch a {
	case ActionBless, ActionCursor:
		return false
	default:
		return true
	}
}

// Scenario is a parsed scenario file.
type Scenario struct {
	Name string `json:"name,omitempty" mapstructure:"name" jsonschema:"description=Human readable name of the scenario."`

	// Capacity overrides the configured number of engines per media type.
	Capacity Capacity `json:"capacity,omitempty" mapstructure:"capacity" jsonschema:"description=Number of engines per media type. Missing values fall back to the configuration."`

	// Distance is the path of a Lua distance script. Bare names are looked up in the scripts directory.
	Distance string `json:"distance,omitempty" mapstructure:"distance" jsonschema:"description=Lua distance script. The cursor distance is used when empty."`

	Items []Item `json:"items" mapstructure:"items" jsonschema:"required,description=Media items taking part in the scenario."`
	Steps []Step `json:"steps,omitempty" mapstructure:"steps" jsonschema:"description=Steps executed in order."`

	path string
}

type Capacity struct {
	Audio *int `json:"audio,omitempty" mapstructure:"audio" jsonschema:"minimum=0"`
	Video *int `json:"video,omitempty" mapstructure:"video" jsonschema:"minimum=0"`
}

// Item declares a media item. Items are placed on the cursor line in declaration order unless Index is set.
type Item struct {
	ID       string            `json:"id,omitempty" mapstructure:"id" jsonschema:"description=Item identifier. Generated when empty."`
	Type     string            `json:"type" mapstructure:"type" jsonschema:"required,enum=audio,enum=video"`
	Name     string            `json:"name,omitempty" mapstructure:"name"`
	Src      string            `json:"src,omitempty" mapstructure:"src" jsonschema:"description=Single source URL or path."`
	Sources  []media.Source    `json:"sources,omitempty" mapstructure:"sources" jsonschema:"description=Alternative sources, used when src is empty."`
	Tracks   []media.TextTrack `json:"tracks,omitempty" mapstructure:"tracks"`
	Index    *int              `json:"index,omitempty" mapstructure:"index" jsonschema:"description=Position on the cursor line."`
	Volume   *float64          `json:"volume,omitempty" mapstructure:"volume" jsonschema:"minimum=0,maximum=1"`
	NoAudio  bool              `json:"noaudio,omitempty" mapstructure:"noaudio" jsonschema:"description=Video that never produces sound and is never unmuted."`
	Detached bool              `json:"detached,omitempty" mapstructure:"detached" jsonschema:"description=Start outside the host. Detached items are never given an engine."`
}

// Step is one action of a scenario.
type Step struct {
	Action Action `json:"action" mapstructure:"action" jsonschema:"required,enum=register,enum=reregister,enum=preload,enum=play,enum=pause,enum=mute,enum=unmute,enum=seek,enum=rewind,enum=bless,enum=cursor,enum=mount,enum=unmount"`
	Item   string `json:"item,omitempty" mapstructure:"item" jsonschema:"description=Target item id."`

	// At is the seek position in seconds or the cursor index.
	At float64 `json:"at,omitempty" mapstructure:"at"`

	// Rewind seeks to the start after pausing.
	Rewind bool `json:"rewind,omitempty" mapstructure:"rewind"`

	// Src replaces the item's source before a reregister.
	Src string `json:"src,omitempty" mapstructure:"src"`
}

func (s Step) String() string {
	var b strings.Builder
	b.WriteString(string(s.Action))

	if s.Item != "" {
		b.WriteString(" ")
		b.WriteString(s.Item)
	}

	switch s.Action {
	case ActionSeek:
		fmt.Fprintf(&b, " @%gs", s.At)
	case ActionCursor:
		fmt.Fprintf(&b, " @%g", s.At)
	case ActionPause:
		if s.Rewind {
			b.WriteString(" (rewind)")
		}
	case ActionReregister:
		if s.Src != "" {
			b.WriteString(" -> ")
			b.WriteString(s.Src)
		}
	}

	return b.String()
}

// Path returns the file the scenario was loaded from.
func (s *Scenario) Path() string {
	return s.path
}

// Title returns the scenario name, or the file name when it has none.
func (s *Scenario) Title() string {
	if s.Name != "" {
		return s.Name
	}

	if s.path != "" {
		return strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path))
	}

	return "scenario"
}

// Load reads a scenario file. Names without a directory or extension are also looked up in the scenarios directory.
func Load(name string) (*Scenario, error) {
	path, err := Resolve(name)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(filesystem.API())
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var s Scenario
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode scenario %s: %w", path, err)
	}

	s.path = path
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}

	return &s, nil
}

// Resolve finds the scenario file for name.
func Resolve(name string) (string, error) {
	if name == "" {
		return "", errors.New("scenario name is empty")
	}

	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, lo.Map(Extensions, func(ext string, _ int) string {
			return name + ext
		})...)
	}

	if filepath.Base(name) == name {
		dir := where.Scenarios()
		candidates = append(candidates, lo.Map(candidates, func(c string, _ int) string {
			return filepath.Join(dir, c)
		})...)
	}

	for _, candidate := range candidates {
		if !lo.Contains(Extensions, strings.ToLower(filepath.Ext(candidate))) {
			continue
		}

		if exists, _ := filesystem.API().Exists(candidate); exists {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("scenario %q not found", name)
}

// Validate checks the scenario and fills in generated item ids.
func (s *Scenario) Validate() error {
	if len(s.Items) == 0 {
		return errors.New("no items declared")
	}

	if err := s.Capacity.validate(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(s.Items))
	for i := range s.Items {
		item := &s.Items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}

		if seen[item.ID] {
			return fmt.Errorf("item %q declared twice", item.ID)
		}
		seen[item.ID] = true

		if _, err := media.ParseType(item.Type); err != nil {
			return fmt.Errorf("item %q: %w", item.ID, err)
		}

		if item.Volume != nil && (*item.Volume < 0 || *item.Volume > 1) {
			return fmt.Errorf("item %q: volume %v out of range [0, 1]", item.ID, *item.Volume)
		}
	}

	ids := lo.Keys(seen)
	for i, step := range s.Steps {
		if !lo.Contains(Actions(), step.Action) {
			return fmt.Errorf("step %d: unknown action %q", i+1, step.Action)
		}

		if !step.Action.NeedsItem() {
			continue
		}

		if step.Item == "" {
			return fmt.Errorf("step %d: %s needs an item", i+1, step.Action)
		}

		if !seen[step.Item] {
			return fmt.Errorf("step %d: %w", i+1, unknownItem(step.Item, ids))
		}
	}

	return nil
}

func (c Capacity) validate() error {
	for t, n := range map[media.Type]*int{media.Audio: c.Audio, media.Video: c.Video} {
		if n != nil && *n < 0 {
			return fmt.Errorf("negative %s capacity %d", t, *n)
		}
	}

	return nil
}

// Schema returns the JSON schema of scenario files.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.AllowAdditionalProperties = true

	return reflector.Reflect(&Scenario{})
}
