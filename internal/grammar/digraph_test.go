package grammar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTraverseFirstCallAlwaysSucceeds(t *testing.T) {
	g := NewDigraph[string]()
	g.AddEdge("A", "B")
	require.NoError(t, g.Traverse("Z")) // not even a node yet
}

func TestTraverseRequiresDirectEdge(t *testing.T) {
	g := NewDigraph[string]()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	require.NoError(t, g.Traverse("A"))
	require.Error(t, g.Traverse("C")) // not adjacent to A
	require.NoError(t, g.Traverse("B"))
	require.NoError(t, g.Traverse("C"))
}

func TestSkipRequiresTraversalStarted(t *testing.T) {
	g := NewDigraph[string]()
	g.AddEdge("A", "B")
	require.Error(t, g.Skip("B"))
	require.NoError(t, g.Traverse("A"))
	require.NoError(t, g.Skip("B"))
}

func TestRemoveNodeReroutes(t *testing.T) {
	g := NewDigraph[string]()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.RemoveNode("B")
	next, err := g.GetNextNodes("A")
	require.NoError(t, err)
	require.Contains(t, next, "C")
}

func TestRemoveNodesWithoutConnectingDropsPath(t *testing.T) {
	g := NewDigraph[string]()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.RemoveNodesWithoutConnecting([]string{"B"})
	next, err := g.GetNextNodes("A")
	require.NoError(t, err)
	require.NotContains(t, next, "C")
}
