// Profiling:
// go build ./profile/graph
// go tool pprof -http=":8000" -nodefraction=0.001 ./graph cpu.pprof

package main

import (
	"github.com/edwinsyarief/kizuna/ontology"
	"github.com/pkg/profile"
)

func main() {
	count := 20
	scenes := 16
	objects := 10000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, scenes, objects)
	p.Stop()
}

// run builds a world, moves every object through every scene and tears the
// world down again.
func run(rounds, numScenes, numObjects int) {
	for range rounds {
		f := ontology.NewFactory(nil)
		u := f.CreateUniverse("universe")
		scenes := make([]*ontology.Scene, numScenes)
		brains := make([]*ontology.Brain, numScenes)
		for i := range scenes {
			scenes[i] = f.CreateScene(u, "")
			brains[i] = f.CreateBrain(scenes[i], "")
		}
		m := f.CreateMaterial(scenes[0], "")
		sp := f.CreateSpecies(m, "")

		objects := make([]*ontology.Object, numObjects)
		for i := range objects {
			objects[i] = f.CreateObject(scenes[0], sp, brains[0], "")
		}
		for i := 1; i < numScenes; i++ {
			for _, o := range objects {
				o.SetParent(scenes[i])
				o.SetBrain(brains[i])
			}
		}
		f.Destroy(u)
	}
}
