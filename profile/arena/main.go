// Profiling:
// go build ./profile/arena
// go tool pprof -http=":8000" -nodefraction=0.001 ./arena mem.pprof

package main

import (
	"github.com/edwinsyarief/kizuna"
	"github.com/pkg/profile"
)

type particle struct {
	kizuna.Slot
	V int64
	W int64
}

func main() {
	count := 50
	iters := 1000
	particles := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, particles)
	p.Stop()
}

func run(rounds, iters, numParticles int) {
	for range rounds {
		a := kizuna.NewAllocator[particle]("particles", 256)
		live := make([]*particle, 0, numParticles)

		for range iters {
			for i := range numParticles {
				live = append(live, a.Build(func(p *particle) { p.V = int64(i) }))
			}
			for p := range a.All() {
				p.W += p.V
			}
			for _, p := range live {
				a.Destroy(p)
			}
			live = live[:0]
		}
	}
}
