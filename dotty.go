package bintree

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/bintree/arena"
)

type nodeids struct {
	idTable map[arena.Handle]int
	max     int
}

func newtable() nodeids {
	return nodeids{
		idTable: make(map[arena.Handle]int),
		max:     1,
	}
}

func (ids nodeids) find(h arena.Handle) int {
	return ids.idTable[h]
}

func (ids *nodeids) alloc(h arena.Handle) int {
	if id := ids.find(h); id > 0 {
		return id
	}
	ids.idTable[h] = ids.max
	ids.max++
	return ids.max - 1
}

// Tree2Dot outputs the structure of the tree below root in Graphviz DOT format
// (for debugging purposes).
//
// Owning links are drawn as solid edges, parent links as dashed edges.
// Nodes with a single child show the empty slot as a small circle.
func Tree2Dot[T any](root Node[T], w io.Writer) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	if !root.Valid() {
		tracer().Errorf("tree DOT: %s", ErrReleased.Error())
		io.WriteString(w, "}\n")
		return
	}
	f := root.forest
	ids := newtable()
	var nodelist, edgelist strings.Builder
	var walk func(h arena.Handle, depth int)
	walk = func(h arena.Handle, depth int) {
		ID := ids.alloc(h)
		n := f.get(h)
		label := strings.ReplaceAll(fmt.Sprintf("%v", n.value), `"`, `\"`)
		fmt.Fprintf(&nodelist, "\"%d\" [label=\"%s\"%s];\n", ID, label, nodeDotStyles(depth))
		single := n.left.IsNil() != n.right.IsNil()
		children := [2]arena.Handle{n.left, n.right}
		for i, c := range children {
			if c.IsNil() {
				if single {
					nilid := emptySlotID(ID, i)
					fmt.Fprintf(&nodelist, "\"%s\" %s;\n", nilid, emptyNode())
					fmt.Fprintf(&edgelist, "\"%d\" -> \"%s\";\n", ID, nilid)
				}
				continue
			}
			cid := ids.alloc(c)
			fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\";\n", ID, cid)
			fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\" [style=dashed,constraint=false];\n", cid, ID)
		}
		for _, c := range children {
			if !c.IsNil() {
				walk(c, depth+1)
			}
		}
	}
	walk(root.h, 0)
	io.WriteString(w, nodelist.String())
	io.WriteString(w, edgelist.String())
	io.WriteString(w, "}\n")
}

// emptySlotID names the placeholder for an empty child slot of node ID.
// Placeholders live in their own namespace and never clash with node IDs.
func emptySlotID(ID int, slot int) string {
	return fmt.Sprintf("nil%d_%d", ID, slot)
}

func emptyNode() string {
	return "[label=\"\",color=black,shape=circle,fixedsize=true,width=.4]"
}

func nodeDotStyles(depth int) string {
	s := ",style=filled"
	if depth >= len(hexcolors) {
		depth = len(hexcolors) - 1
	}
	s += fmt.Sprintf(",fillcolor=\"%s\"", hexcolors[depth])
	s += ",shape=circle"
	return s
}

var hexcolors = [...]string{"white", "#CCDDFF", "#AACCFF", "#88BBFF", "#66AAFF",
	"#4499FF", "#2288FF", "#0077FF", "#0066FF"}
