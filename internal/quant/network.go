package quant

// buildNetwork collapses the directed reply matrix of a group chat into an
// undirected interaction graph with degree centrality and density. Node
// order follows declaration order, then first appearance.
func buildNetwork(a *accumulator) *NetworkMetrics {
	n := len(a.order)
	nm := &NetworkMetrics{
		Nodes: make([]NetworkNode, 0, n),
		Edges: make([]NetworkEdge, 0),
	}

	neighbors := make(map[string]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			na, nb := a.order[i], a.order[j]
			ab := a.directed[na][nb]
			ba := a.directed[nb][na]
			if ab+ba == 0 {
				continue
			}
			nm.Edges = append(nm.Edges, NetworkEdge{A: na, B: nb, AToB: ab, BToA: ba, Weight: ab + ba})
			neighbors[na]++
			neighbors[nb]++
		}
	}

	for _, name := range a.order {
		centrality := 0.0
		if n > 1 {
			centrality = clamp01(float64(neighbors[name]) / float64(n-1))
		}
		nm.Nodes = append(nm.Nodes, NetworkNode{
			Name:             name,
			DegreeCentrality: centrality,
			TotalMessages:    a.accs[name].messages,
		})
	}

	if pairs := n * (n - 1) / 2; pairs > 0 {
		nm.Density = clamp01(float64(len(nm.Edges)) / float64(pairs))
	}

	// Highest centrality wins; ties fall to message count, then to node
	// order.
	best := 0
	for i := 1; i < len(nm.Nodes); i++ {
		node, lead := nm.Nodes[i], nm.Nodes[best]
		if node.DegreeCentrality > lead.DegreeCentrality ||
			(node.DegreeCentrality == lead.DegreeCentrality && node.TotalMessages > lead.TotalMessages) {
			best = i
		}
	}
	if len(nm.Nodes) > 0 {
		nm.MostConnected = nm.Nodes[best].Name
	}
	return nm
}
