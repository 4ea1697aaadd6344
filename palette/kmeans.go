package palette

import (
	"math"
	"math/rand/v2"

	"github.com/muesli/clusters"
)

const (
	kmeansRestarts   = 10
	kmeansIterations = 300
)

// seededPartition runs Lloyd's algorithm with k-means++ seeding drawn from
// seed. The partition with the lowest inertia over several restarts wins,
// so the same input always yields the same clusters.
func seededPartition(obs clusters.Observations, k int, seed uint64) clusters.Clusters {
	if k <= 0 || len(obs) == 0 {
		return nil
	}
	k = min(k, len(obs))
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	var best clusters.Clusters
	bestInertia := math.Inf(1)
	for range kmeansRestarts {
		cc := lloyd(obs, seedCenters(obs, k, rng))
		if in := inertia(cc); in < bestInertia {
			bestInertia = in
			best = cc
		}
	}
	return best
}

func seedCenters(obs clusters.Observations, k int, rng *rand.Rand) clusters.Clusters {
	cc := make(clusters.Clusters, 0, k)
	first := obs[rng.IntN(len(obs))].Coordinates()
	cc = append(cc, clusters.Cluster{Center: append(clusters.Coordinates(nil), first...)})

	d2 := make([]float64, len(obs))
	for len(cc) < k {
		sum := 0.0
		for i, o := range obs {
			d := math.Inf(1)
			for _, c := range cc {
				d = min(d, o.Distance(c.Center))
			}
			d2[i] = d
			sum += d
		}
		next := 0
		if sum > 0 {
			target := rng.Float64() * sum
			for i, d := range d2 {
				target -= d
				if target <= 0 {
					next = i
					break
				}
			}
		} else {
			next = rng.IntN(len(obs))
		}
		c := obs[next].Coordinates()
		cc = append(cc, clusters.Cluster{Center: append(clusters.Coordinates(nil), c...)})
	}
	return cc
}

func lloyd(obs clusters.Observations, cc clusters.Clusters) clusters.Clusters {
	assign := make([]int, len(obs))
	for i := range assign {
		assign[i] = -1
	}
	for range kmeansIterations {
		changed := false
		cc.Reset()
		for i, o := range obs {
			n := cc.Nearest(o)
			if n != assign[i] {
				assign[i] = n
				changed = true
			}
			cc[n].Append(o)
		}
		if !changed {
			break
		}
		cc.Recenter()
	}
	return cc
}

func inertia(cc clusters.Clusters) float64 {
	total := 0.0
	for _, c := range cc {
		for _, o := range c.Observations {
			total += o.Distance(c.Center)
		}
	}
	return total
}

func largest(cc clusters.Clusters) (clusters.Cluster, bool) {
	best := -1
	for i, c := range cc {
		if best < 0 || len(c.Observations) > len(cc[best].Observations) {
			best = i
		}
	}
	if best < 0 {
		return clusters.Cluster{}, false
	}
	return cc[best], true
}
