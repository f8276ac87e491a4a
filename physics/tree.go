package physics

import (
	"github.com/TFMV/forcegraph/geom"
	"github.com/TFMV/forcegraph/models"
)

// Layers assigns every node reachable from root, ignoring vertex direction, its
// breadth-first distance from root. Unreachable nodes are absent.
func Layers(g *models.Graph, root models.NodeID) map[models.NodeID]int {
	if !g.HasNode(root) {
		return map[models.NodeID]int{}
	}

	adjacent := make(map[models.NodeID][]models.NodeID)
	for _, v := range g.Vertices() {
		if v.Loop() {
			continue
		}
		adjacent[v.From] = append(adjacent[v.From], v.To)
		adjacent[v.To] = append(adjacent[v.To], v.From)
	}

	layers := map[models.NodeID]int{root: 0}
	queue := []models.NodeID{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacent[current] {
			if _, seen := layers[next]; seen {
				continue
			}
			layers[next] = layers[current] + 1
			queue = append(queue, next)
		}
	}
	return layers
}

// treeForces pulls every layer towards its mean height and adds gravity to the
// nodes hanging below root. Only root's component takes part.
func (fl *ForceLayout) treeForces(g *models.Graph, root models.NodeID, nodes []*models.Node, positions, forces []geom.Vector) {
	layers := Layers(g, root)

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for i, n := range nodes {
		if layer, ok := layers[n.ID]; ok {
			sums[layer] += positions[i].Y()
			counts[layer]++
		}
	}

	gravity := geom.Vec(0, fl.config.Gravity)
	for i, n := range nodes {
		layer, ok := layers[n.ID]
		if !ok {
			continue
		}

		mean := sums[layer] / float64(counts[layer])
		forces[i] = forces[i].Add(geom.Vec(0, (mean-positions[i].Y())*fl.config.TreeStrength))

		if n.ID != root {
			forces[i] = forces[i].Add(gravity)
		}
	}
}
