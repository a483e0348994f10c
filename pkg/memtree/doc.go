// Package memtree is an in-memory output tree for the renderer.
//
// Tree implements the renderer's host operations over plain Go structs and
// records every operation it receives in an ordered log. Tests assert on
// the log to check that a patch touched exactly what it should; the CLI uses
// HTML to print the resulting tree.
//
//	tree := memtree.New()
//	root := tree.Container("div")
//	app := renderer.CreateApp(tree, counter, nil)
//	app.Mount(root)
//	fmt.Println(memtree.InnerHTML(root))
//	fmt.Println(tree.Count(memtree.OpMove))
//
// Inserting a handle that is already attached is recorded as a move.
package memtree
