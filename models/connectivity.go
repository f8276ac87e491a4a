package models

// components caches the weakly connected components of a graph. It is dropped
// on every structural change and rebuilt on demand with one traversal per
// component.
type components struct {
	index map[NodeID]int
	lists [][]NodeID
}

func (g *Graph) weakComponents() *components {
	if g.components != nil {
		return g.components
	}

	adjacent := make(map[NodeID][]NodeID, len(g.nodes))
	for _, v := range g.vertices {
		if v.Loop() {
			continue
		}
		adjacent[v.From] = append(adjacent[v.From], v.To)
		adjacent[v.To] = append(adjacent[v.To], v.From)
	}

	c := &components{index: make(map[NodeID]int, len(g.nodes))}
	for _, start := range g.nodes {
		if _, seen := c.index[start.ID]; seen {
			continue
		}

		n := len(c.lists)
		c.index[start.ID] = n
		members := []NodeID{start.ID}

		for queue := []NodeID{start.ID}; len(queue) > 0; {
			current := queue[0]
			queue = queue[1:]
			for _, next := range adjacent[current] {
				if _, seen := c.index[next]; seen {
					continue
				}
				c.index[next] = n
				members = append(members, next)
				queue = append(queue, next)
			}
		}

		c.lists = append(c.lists, members)
	}

	g.components = c
	return c
}

// WeaklyConnected reports whether a path joins a and b when vertex direction is
// ignored. Every existing node is connected to itself.
func (g *Graph) WeaklyConnected(a, b NodeID) bool {
	c := g.weakComponents()
	ca, okA := c.index[a]
	cb, okB := c.index[b]
	return okA && okB && ca == cb
}

// Components returns the weakly connected components, each in traversal order.
// Components are ordered by their first node's insertion order.
func (g *Graph) Components() [][]NodeID {
	c := g.weakComponents()
	out := make([][]NodeID, len(c.lists))
	for i, members := range c.lists {
		out[i] = append([]NodeID(nil), members...)
	}
	return out
}

// ComponentIndex maps every node to the index of its component in Components()
func (g *Graph) ComponentIndex() map[NodeID]int {
	c := g.weakComponents()
	out := make(map[NodeID]int, len(c.index))
	for id, n := range c.index {
		out[id] = n
	}
	return out
}

// WeaklyConnectedTo returns, in insertion order, every node sharing a component
// with at least one of ids
func (g *Graph) WeaklyConnectedTo(ids ...NodeID) []NodeID {
	c := g.weakComponents()
	wanted := make(map[int]bool)
	for _, id := range ids {
		if n, ok := c.index[id]; ok {
			wanted[n] = true
		}
	}

	var out []NodeID
	for _, node := range g.nodes {
		if wanted[c.index[node.ID]] {
			out = append(out, node.ID)
		}
	}
	return out
}
