// Package stress drives a seeded random workload against an ontology
// factory and checks the graph invariants while it runs.
package stress

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"

	"github.com/edwinsyarief/kizuna"
	"github.com/edwinsyarief/kizuna/ontology"
)

// Op is one kind of workload step.
type Op int

const (
	OpCreateScene Op = iota
	OpCreateMaterial
	OpCreateSpecies
	OpCreateBrain
	OpCreateObject
	OpDestroyObject
	OpDestroySpecies
	OpDestroyBrain
	OpDestroyMaterial
	OpDestroyScene
	OpMoveObject
	OpMoveMaterial
	OpRebindSpecies
	OpRebindBrain
	OpRebuildUniverse
	numOps
)

var opNames = [numOps]string{
	OpCreateScene:     "create_scene",
	OpCreateMaterial:  "create_material",
	OpCreateSpecies:   "create_species",
	OpCreateBrain:     "create_brain",
	OpCreateObject:    "create_object",
	OpDestroyObject:   "destroy_object",
	OpDestroySpecies:  "destroy_species",
	OpDestroyBrain:    "destroy_brain",
	OpDestroyMaterial: "destroy_material",
	OpDestroyScene:    "destroy_scene",
	OpMoveObject:      "move_object",
	OpMoveMaterial:    "move_material",
	OpRebindSpecies:   "rebind_species",
	OpRebindBrain:     "rebind_brain",
	OpRebuildUniverse: "rebuild_universe",
}

// weights bias the workload towards growth so the graph stays populated.
var weights = [numOps]int{
	OpCreateScene:     2,
	OpCreateMaterial:  4,
	OpCreateSpecies:   6,
	OpCreateBrain:     4,
	OpCreateObject:    30,
	OpDestroyObject:   12,
	OpDestroySpecies:  3,
	OpDestroyBrain:    3,
	OpDestroyMaterial: 2,
	OpDestroyScene:    1,
	OpMoveObject:      8,
	OpMoveMaterial:    2,
	OpRebindSpecies:   8,
	OpRebindBrain:     8,
	OpRebuildUniverse: 1,
}

func (o Op) String() string {
	if o < 0 || o >= numOps {
		return "Op(" + strconv.Itoa(int(o)) + ")"
	}
	return opNames[o]
}

// Options configure a run.
type Options struct {
	Seed       uint64
	Operations int
	Universes  int
	CheckEvery int // 0 checks only at the end
	Capacities ontology.Capacities
	Logger     *slog.Logger
}

// Report summarizes a run.
type Report struct {
	Seed       uint64                  `json:"seed" yaml:"seed"`
	Operations int                     `json:"operations" yaml:"operations"`
	Steps      map[string]int          `json:"steps" yaml:"steps"`
	Skipped    int                     `json:"skipped" yaml:"skipped"`
	Checks     int                     `json:"checks" yaml:"checks"`
	Peak       int                     `json:"peak" yaml:"peak"`
	Created    map[string]int          `json:"created" yaml:"created"`
	Destroyed  map[string]int          `json:"destroyed" yaml:"destroyed"`
	Allocators []kizuna.AllocatorStats `json:"allocators" yaml:"allocators"`
}

// Runner holds the state of one workload.
type Runner struct {
	opts    Options
	rng     *rand.Rand
	factory *ontology.Factory
	log     *slog.Logger
	serial  int

	// lifecycle events seen, per datatype
	created   map[ontology.Datatype]int
	destroyed map[ontology.Datatype]int

	universes pool[*ontology.Universe]
	scenes    pool[*ontology.Scene]
	materials pool[*ontology.Material]
	species   pool[*ontology.Species]
	brains    pool[*ontology.Brain]
	objects   pool[*ontology.Object]
}

// NewRunner creates a runner with a fresh factory.
func NewRunner(opts Options) *Runner {
	if opts.Universes < 1 {
		opts.Universes = 1
	}
	log := opts.Logger
	if log == nil {
		log = kizuna.Logger()
	}
	r := &Runner{
		opts:      opts,
		rng:       rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		factory:   ontology.NewFactory(opts.Capacities),
		log:       log,
		created:   make(map[ontology.Datatype]int),
		destroyed: make(map[ontology.Datatype]int),
	}
	kizuna.Subscribe(r.factory.Events(), func(e ontology.Created) { r.created[e.Type]++ })
	kizuna.Subscribe(r.factory.Events(), func(e ontology.Destroyed) { r.destroyed[e.Type]++ })
	for range opts.Universes {
		r.universes.add(r.factory.CreateUniverse(r.name("universe")))
	}
	return r
}

// Factory returns the factory the runner mutates.
func (r *Runner) Factory() *ontology.Factory { return r.factory }

// Run executes the workload. It checks the invariants every CheckEvery
// steps and once at the end, then clears the factory and verifies that
// nothing leaked. The returned report describes the graph before clearing.
func Run(ctx context.Context, opts Options) (Report, error) {
	r := NewRunner(opts)
	rep, err := r.Run(ctx)
	if err != nil {
		return rep, err
	}
	r.factory.Clear()
	for _, s := range r.factory.Stats() {
		if s.Instances != 0 {
			return rep, fmt.Errorf("stress: %d %s left after clear", s.Instances, s.Name)
		}
	}
	return rep, nil
}

// Run executes the workload against the runner's factory.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	rep := Report{
		Seed:       r.opts.Seed,
		Operations: r.opts.Operations,
		Steps:      make(map[string]int),
	}
	total := 0
	for _, w := range weights {
		total += w
	}
	for i := range r.opts.Operations {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("stress: interrupted after %d steps: %w", i, err)
		}
		op := pickOp(r.rng.IntN(total))
		if r.Step(op) {
			rep.Steps[op.String()]++
		} else {
			rep.Skipped++
		}
		rep.Peak = max(rep.Peak, r.live())
		if r.opts.CheckEvery > 0 && (i+1)%r.opts.CheckEvery == 0 {
			rep.Checks++
			if err := r.Check(); err != nil {
				return rep, fmt.Errorf("stress: invariant violated after step %d (%s): %w", i+1, op, err)
			}
			r.log.Debug("stress: checkpoint", slog.Int("step", i+1), slog.Int("live", r.live()))
		}
	}
	rep.Checks++
	if err := r.Check(); err != nil {
		return rep, fmt.Errorf("stress: invariant violated at the end: %w", err)
	}
	rep.Allocators = r.factory.Stats()
	rep.Created = byName(r.created)
	rep.Destroyed = byName(r.destroyed)
	r.log.Info("stress: workload finished",
		slog.Uint64("seed", r.opts.Seed),
		slog.Int("operations", r.opts.Operations),
		slog.Int("skipped", rep.Skipped),
		slog.Int("peak", rep.Peak))
	return rep, nil
}

// Check verifies the graph and that every participant the allocators hold
// was announced as created and not yet as destroyed.
func (r *Runner) Check() error {
	if err := Check(r.factory); err != nil {
		return err
	}
	for _, d := range ontology.Datatypes() {
		want := r.created[d] - r.destroyed[d]
		if got := r.factory.InstanceCount(d); got != want {
			return fmt.Errorf("%s: %d alive but events account for %d", d, got, want)
		}
	}
	return nil
}

func byName(counts map[ontology.Datatype]int) map[string]int {
	m := make(map[string]int, len(counts))
	for d, n := range counts {
		m[d.String()] = n
	}
	return m
}

func pickOp(n int) Op {
	for op, w := range weights {
		if n < w {
			return Op(op)
		}
		n -= w
	}
	return OpCreateObject
}

func (r *Runner) live() int {
	n := 0
	for _, s := range r.factory.Stats() {
		n += s.Instances
	}
	return n
}

func (r *Runner) name(kind string) string {
	r.serial++
	return kind + "-" + strconv.Itoa(r.serial)
}

// sceneOf resolves the scene of a scoped participant.
func sceneOf(e kizuna.Scoped) *ontology.Scene {
	s, _ := e.Scene().(*ontology.Scene)
	return s
}

// pickIn returns a random live entry of p that lives in scene.
func pickIn[T interface {
	handled
	kizuna.Scoped
}](r *Runner, p *pool[T], scene *ontology.Scene) (T, bool) {
	var candidates []T
	for i, e := range p.items {
		if e.Handle() == p.handles[i] && sceneOf(e) == scene {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		var zero T
		return zero, false
	}
	return candidates[r.rng.IntN(len(candidates))], true
}

// Step applies one operation. It reports false when the operation had
// nothing to act on.
func (r *Runner) Step(op Op) bool {
	f := r.factory
	switch op {
	case OpCreateScene:
		u, ok := r.universes.pick(r.rng)
		if !ok {
			return false
		}
		r.scenes.add(f.CreateScene(u, r.name("scene")))
	case OpCreateMaterial:
		s, ok := r.scenes.pick(r.rng)
		if !ok {
			return false
		}
		r.materials.add(f.CreateMaterial(s, r.name("material")))
	case OpCreateSpecies:
		m, ok := r.materials.pick(r.rng)
		if !ok {
			return false
		}
		r.species.add(f.CreateSpecies(m, r.name("species")))
	case OpCreateBrain:
		s, ok := r.scenes.pick(r.rng)
		if !ok {
			return false
		}
		r.brains.add(f.CreateBrain(s, r.name("brain")))
	case OpCreateObject:
		s, ok := r.scenes.pick(r.rng)
		if !ok {
			return false
		}
		sp, _ := pickIn(r, &r.species, s)
		b, _ := pickIn(r, &r.brains, s)
		r.objects.add(f.CreateObject(s, sp, b, r.name("object")))
	case OpDestroyObject:
		return destroy(r, &r.objects)
	case OpDestroySpecies:
		return destroy(r, &r.species)
	case OpDestroyBrain:
		return destroy(r, &r.brains)
	case OpDestroyMaterial:
		return destroy(r, &r.materials)
	case OpDestroyScene:
		return destroy(r, &r.scenes)
	case OpMoveObject:
		o, ok := r.objects.pick(r.rng)
		if !ok {
			return false
		}
		s, ok := r.scenes.pick(r.rng)
		if !ok {
			return false
		}
		o.SetParent(s)
	case OpMoveMaterial:
		m, ok := r.materials.pick(r.rng)
		if !ok {
			return false
		}
		s, ok := r.scenes.pick(r.rng)
		if !ok {
			return false
		}
		m.SetParent(s)
	case OpRebindSpecies:
		o, ok := r.objects.pick(r.rng)
		if !ok {
			return false
		}
		sp, _ := pickIn(r, &r.species, o.Parent())
		o.SetSpecies(sp)
	case OpRebindBrain:
		o, ok := r.objects.pick(r.rng)
		if !ok {
			return false
		}
		b, _ := pickIn(r, &r.brains, o.Parent())
		o.SetBrain(b)
	case OpRebuildUniverse:
		u, ok := r.universes.pick(r.rng)
		if !ok {
			return false
		}
		f.Destroy(u)
		r.universes.add(f.CreateUniverse(r.name("universe")))
	default:
		return false
	}
	return true
}

func destroy[T handled](r *Runner, p *pool[T]) bool {
	e, ok := p.pick(r.rng)
	if !ok {
		return false
	}
	if !r.factory.Destroy(e) {
		r.log.Error("stress: destroy refused", slog.String("handle", e.Handle().String()))
		return false
	}
	return true
}

// Ops returns every operation in declaration order.
func Ops() []Op {
	ops := make([]Op, numOps)
	for i := range ops {
		ops[i] = Op(i)
	}
	return ops
}
