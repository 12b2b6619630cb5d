package scenario

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anisan-cli/mediapool/distance"
	"github.com/anisan-cli/mediapool/filesystem"
	"github.com/anisan-cli/mediapool/key"
	"github.com/anisan-cli/mediapool/log"
	"github.com/anisan-cli/mediapool/media"
	"github.com/anisan-cli/mediapool/pool"
	"github.com/anisan-cli/mediapool/presentation"
	"github.com/anisan-cli/mediapool/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// ErrUnknownItem is returned for steps naming an item the scenario does not declare.
var ErrUnknownItem = errors.New("unknown item")

// Result is the outcome of one step.
type Result struct {
	Index    int           `json:"index"`
	Step     Step          `json:"step"`
	Error    string        `json:"error,omitempty"`
	Snapshot pool.Snapshot `json:"snapshot"`
}

// Failed reports whether the step returned an error.
func (r Result) Failed() bool {
	return r.Error != ""
}

// Runner drives a pool with the items and steps of a scenario.
// It is the pool's owner in the registry.
type Runner struct {
	scenario *Scenario
	registry *pool.Registry
	engines  pool.EngineFactory
	owner    string

	pool     *pool.Pool
	tree     *presentation.Tree
	cursor   *distance.Cursor
	closeFns []func()

	items map[string]*media.Item
	order []string
}

// NewRunner creates the scenario's pool in registry, mounts the items and registers them.
func NewRunner(s *Scenario, registry *pool.Registry, engines pool.EngineFactory) (*Runner, error) {
	r := &Runner{
		scenario: s,
		registry: registry,
		engines:  engines,
		owner:    pool.NewOwnerID(),
		tree:     presentation.NewTree(),
		cursor:   distance.NewCursor(),
		items:    make(map[string]*media.Item, len(s.Items)),
	}

	for i, spec := range s.Items {
		item := newItem(spec)
		r.items[item.ID()] = item
		r.order = append(r.order, item.ID())

		r.cursor.Place(item.ID(), lo.FromPtrOr(spec.Index, i))
		if !spec.Detached {
			r.tree.Mount(item)
		}
	}

	p, err := registry.For(r)
	if err != nil {
		r.closeDistance()
		return nil, err
	}
	r.pool = p

	for _, id := range r.order {
		if _, err := r.pool.Register(r.items[id]).Collect(); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("register %s: %w", id, err)
		}
	}

	log.Infof("scenario %s: %d items registered", s.Title(), len(r.order))
	return r, nil
}

func newItem(spec Item) *media.Item {
	t, _ := media.ParseType(spec.Type)
	item := media.NewItem(spec.ID, t)

	if spec.Name != "" {
		item.SetName(spec.Name)
	}

	if spec.Src != "" {
		item.SetSrc(spec.Src)
	} else {
		item.SetSources(spec.Sources)
	}

	item.SetTextTracks(spec.Tracks)
	item.SetNoAudio(spec.NoAudio)
	if spec.Volume != nil {
		item.SetVolume(*spec.Volume)
	}

	return item
}

// OwnerID identifies the run in the registry.
func (r *Runner) OwnerID() string {
	return r.owner
}

// PoolOptions builds the pool options from the configuration and the scenario overrides.
func (r *Runner) PoolOptions() (pool.Options, error) {
	fn, closer, err := distance.New(r.scriptPath(), r.cursor)
	if err != nil {
		return pool.Options{}, err
	}
	r.closeFns = append(r.closeFns, closer)

	opts := pool.Configured(fn, r.tree, r.engines)
	capacity := map[media.Type]int{
		media.Audio: lo.FromPtrOr(r.scenario.Capacity.Audio, opts.Capacity[media.Audio]),
		media.Video: lo.FromPtrOr(r.scenario.Capacity.Video, opts.Capacity[media.Video]),
	}
	opts.Capacity = capacity

	return opts, nil
}

// scriptPath resolves the distance script, preferring the scenario over the configuration.
func (r *Runner) scriptPath() string {
	path := r.scenario.Distance
	if path == "" {
		path = viper.GetString(key.DistanceScript)
	}

	if path == "" || filepath.IsAbs(path) {
		return path
	}

	if exists, _ := filesystem.API().Exists(path); exists {
		return path
	}

	if filepath.Ext(path) == "" {
		path += ".lua"
	}

	return filepath.Join(where.Scripts(), path)
}

// Scenario returns the scenario being run.
func (r *Runner) Scenario() *Scenario {
	return r.scenario
}

// Pool returns the pool owned by the run.
func (r *Runner) Pool() *pool.Pool {
	return r.pool
}

// Cursor returns the cursor the distance policy measures from.
func (r *Runner) Cursor() *distance.Cursor {
	return r.cursor
}

// Host returns the host the items are mounted in.
func (r *Runner) Host() *presentation.Tree {
	return r.tree
}

// Items returns the items in declaration order.
func (r *Runner) Items() []*media.Item {
	return lo.Map(r.order, func(id string, _ int) *media.Item {
		return r.items[id]
	})
}

// Item looks up an item by id.
func (r *Runner) Item(id string) (*media.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, unknownItem(id, r.order)
	}

	return item, nil
}

// Do executes a single step and waits for it to settle.
func (r *Runner) Do(step Step) error {
	if !step.Action.NeedsItem() {
		switch step.Action {
		case ActionBless:
			return await(r.pool.BlessAll())
		case ActionCursor:
			r.cursor.Move(int(step.At))
			return nil
		}
	}

	item, err := r.Item(step.Item)
	if err != nil {
		return err
	}

	switch step.Action {
	case ActionRegister:
		return await(r.pool.Register(item))
	case ActionReregister:
		if step.Src != "" {
			item.SetSrc(step.Src)
		}
		return await(r.pool.Reregister(item))
	case ActionPreload:
		return await(r.pool.Preload(item))
	case ActionPlay:
		return await(r.pool.Play(item))
	case ActionPause:
		return await(r.pool.Pause(item, step.Rewind))
	case ActionMute:
		return await(r.pool.Mute(item))
	case ActionUnmute:
		return await(r.pool.Unmute(item))
	case ActionSeek:
		return await(r.pool.SetCurrentTime(item, step.At))
	case ActionRewind:
		return await(r.pool.RewindToBeginning(item))
	case ActionMount:
		r.tree.Mount(item)
		return nil
	case ActionUnmount:
		r.tree.Unmount(item)
		return nil
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
}

// Run executes every step in order. Failed steps are recorded and the run continues.
// each, when not nil, is called after every step.
func (r *Runner) Run(ctx context.Context, each func(Result)) ([]Result, error) {
	results := make([]Result, 0, len(r.scenario.Steps))

	for i, step := range r.scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := Result{Index: i + 1, Step: step}
		if err := r.Do(step); err != nil {
			log.Warnf("scenario %s: step %d (%s): %v", r.scenario.Title(), i+1, step, err)
			result.Error = err.Error()
		}
		result.Snapshot = r.pool.Snapshot()

		results = append(results, result)
		if each != nil {
			each(result)
		}
	}

	return results, nil
}

// Close releases the pool and the distance policy.
func (r *Runner) Close() error {
	err := r.registry.Release(r.owner)
	r.closeDistance()
	return err
}

func (r *Runner) closeDistance() {
	for _, fn := range r.closeFns {
		fn()
	}
	r.closeFns = nil
}

func await(f *mo.Future[struct{}]) error {
	_, err := f.Collect()
	return err
}

// unknownItem builds an error suggesting the closest known ids.
func unknownItem(id string, known []string) error {
	ranks := fuzzy.RankFindNormalizedFold(id, known)
	if len(ranks) == 0 {
		return fmt.Errorf("%w %q", ErrUnknownItem, id)
	}

	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		return a.Distance - b.Distance
	})
	suggestions := lo.Map(lo.Slice(ranks, 0, 3), func(r fuzzy.Rank, _ int) string {
		return fmt.Sprintf("%q", r.Target)
	})

	return fmt.Errorf("%w %q, did you mean %s?", ErrUnknownItem, id, strings.Join(suggestions, " or "))
}
