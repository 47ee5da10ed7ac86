// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package graphutil

import (
	"github.com/awslabs/ucfg-tools/analysis/cfg"
	"gonum.org/v1/gonum/graph"
)

// BlockGraph is an abstraction over one method's control-flow graph to work with existing graph
// libraries. It implements the methods to satisfy graph.Iterator and Gonum's graph.Graph
type BlockGraph struct {
	// The order of the graph
	order int

	// The original control-flow graph the BlockGraph was constructed from
	Graph *cfg.Graph

	// IDMap maps from node IDs to BlockNodes
	IDMap map[int64]BlockNode

	// Keys are all the node IDs
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed edge between IDMap[x] and IDMap[y]
	Edges map[int64]map[int64]bool
}

// nodeOf maps a block id to its node id in the iterator. Block ids start at 1 in the arena, so
// the node id space is dense and zero-based, an invariant FindAllElementaryCycles relies on to
// slice Keys by node id.
func nodeOf(id cfg.BlockID) int64 {
	return int64(id) - 1
}

// blockOf is the inverse of nodeOf.
func blockOf(v int64) cfg.BlockID {
	return cfg.BlockID(v + 1)
}

// NewBlockIterator returns a new block graph iterator where node ids are the zero-based arena
// positions of the blocks of g
func NewBlockIterator(g *cfg.Graph) BlockGraph {
	n := g.Len()
	idmap := make(map[int64]BlockNode, n)
	edges := make(map[int64]map[int64]bool, n)
	keys := make([]int64, 0, n)
	for _, id := range g.BlockIDs() {
		v := nodeOf(id)
		keys = append(keys, v)

		idmap[v] = BlockNode{BlockID: id, Block: g.Block(id)}
		edges[v] = map[int64]bool{}
		for _, succ := range g.Block(id).Successors {
			if g.Contains(succ) {
				edges[v][nodeOf(succ)] = true
			}
		}
	}

	// BlockIDs is in ascending arena order, so keys come out sorted with Keys[i] == i.

	return BlockGraph{
		order: n,
		Graph: g,
		IDMap: idmap,
		Edges: edges,
		Keys:  keys,
	}
}

// Subgraph returns a new graph that is the original graph with only the nodes in include. Only the edges that have
// both the origin and destination nodes in the include nodes are kept in the resulting graph.
// The subgraph's order, Graph and IDMap are the same as in origin, meaning that node indices will stay consistent
// across subgraphs.
func Subgraph(original BlockGraph, include []int64) BlockGraph {
	idmap := make(map[int64]BlockNode, len(include))
	edges := make(map[int64]map[int64]bool, len(include))
	keys := make([]int64, len(include))

	for j, i := range include {
		keys[j] = i
		idmap[i] = original.IDMap[i]
	}

	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if _, ok := idmap[e]; ok {
				edges[i][e] = true
			}
		}
	}

	return BlockGraph{
		order: original.Order(),
		Graph: original.Graph,
		IDMap: original.IDMap,
		Edges: edges,
		Keys:  keys,
	}
}

// Order implements the order of the graph.Iterator interface for the BlockGraph
func (c BlockGraph) Order() int {
	return c.order
}

// Visit implements the graph.Iterator interface for the BlockGraph
func (c BlockGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := c.IDMap[int64(v)]; !ok {
		return false
	}
	for w := range c.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Graph interface implementation **********************

// Node implements the Graph interface
func (c BlockGraph) Node(v int64) graph.Node {
	return c.IDMap[v]
}

// Nodes returns the set of nodes in the graph
func (c BlockGraph) Nodes() graph.Nodes {
	keys := make([]int64, len(c.IDMap))

	i := 0
	for k := range c.IDMap {
		keys[i] = k
		i++
	}
	return &NodeSet{
		nodes: c.IDMap,
		ids:   keys,
		cur:   -1,
	}
}

// From returns the set of nodes reachable from the id
func (c BlockGraph) From(id int64) graph.Nodes {
	var keys []int64

	for out := range c.Edges[id] {
		keys = append(keys, out)
	}
	return &NodeSet{
		nodes: c.IDMap,
		ids:   keys,
		cur:   -1,
	}
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (c BlockGraph) HasEdgeBetween(xid, yid int64) bool {
	xe := c.Edges[xid]
	ye := c.Edges[yid]
	return xe[yid] || ye[xid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (c BlockGraph) Edge(uid, vid int64) graph.Edge {
	ue := c.Edges[uid]
	if ue != nil {
		if ue[vid] {
			return BlockEdge{from: c.IDMap[uid], to: c.IDMap[vid]}
		}
	}
	return nil
}

// *************** Nodes implementation **********************

// BlockNode is a wrapper around a *cfg.Block that implements the graph.Node interface
type BlockNode struct {
	BlockID cfg.BlockID
	Block   *cfg.Block
}

// ID returns the node id of the block
func (n BlockNode) ID() int64 {
	return nodeOf(n.BlockID)
}

func (n BlockNode) String() string {
	if n.Block == nil {
		return ""
	}
	return n.Block.Kind.String()
}

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	// nodes is the set of nodes in the iterator
	nodes map[int64]BlockNode

	// ids is the set of node ids in the iterator
	// invariant: len(ids) = len(nodes)
	ids []int64

	// cur is the current index of the iterator. The current node is nodes[ids[cur]]
	// invariant: -1 <= cur < len(nodes), and cur is -1 until Next has been called
	cur int
}

// Next moves the current node to the next, and returns true if such a node exists. Otherwise, returns false
// and the current node has not changed.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the length of the node set
func (ns *NodeSet) Len() int {
	return len(ns.ids)
}

// Reset resets the id of the current node in the set
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node return the current node in the set
func (ns *NodeSet) Node() graph.Node {
	return ns.nodes[ns.ids[ns.cur]]
}

// *************** Edge implementation **********************

// BlockEdge implements the graph.Edge interface
type BlockEdge struct {
	from BlockNode
	to   BlockNode
}

// From returns the origin of the edge
func (e BlockEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e BlockEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e BlockEdge) ReversedEdge() graph.Edge {
	return BlockEdge{from: e.to, to: e.from}
}
