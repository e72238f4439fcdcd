// Package sapling is a retained-mode renderer for declarative SVG scene
// graphs.
//
// Sapling resolves unit-relative shape properties into device-space paths,
// composes transforms and opacity down the tree, resolves and caches clip
// paths, and draws through a small [Canvas] interface. Bitmaps are fetched
// asynchronously through a [BitmapCache] and drawn once resident.
//
// # Quick start
//
//	doc := sapling.NewDocument(sapling.Config{Width: 100, Height: 100})
//	rect := doc.NewRect("card")
//	doc.SetLength(rect, sapling.AttrX, "10")
//	doc.SetLength(rect, sapling.AttrY, "10")
//	doc.SetLength(rect, sapling.AttrWidth, "80%")
//	doc.SetLength(rect, sapling.AttrHeight, "40")
//	doc.SetLength(rect, sapling.AttrRx, "8")
//	doc.AddChild(doc.Root(), rect)
//
//	canvas := raster.New(100, 100, raster.Options{})
//	if err := doc.Render(canvas); err != nil {
//		log.Fatal(err)
//	}
//
// For an interactive window use the ebitenview package, which drains the
// document's task queue every tick and redraws only when something changed.
//
// # Nodes
//
// Nodes live in an arena owned by the [Document] and are addressed by
// [NodeID] handles. A handle is generation-checked: after [Document.Dispose]
// it never resolves again, even when its slot is reused. Every setter
// ignores stale handles.
//
// Lengths are stored as strings and resolved lazily against the nearest
// coordinate scope: the root viewport, or a group with a [TextScope].
// Percentages of width and height use the scope's width and height; radii
// of circles use sqrt(w²+h²)/sqrt(2). "em" and "rem" use the scope's font
// size. Absolute units and unit-less numbers are multiplied by the document
// scale.
//
// # Clipping
//
// Clip-path definitions are created with [Document.NewClipPath] and
// referenced by name with [Document.SetClipPath]. A definition's path is the
// union of its children. A shape is clipped to the intersection of its own
// path and its clip path, built from two difference clips so any [Canvas]
// that supports difference clipping can render it.
//
// # Threading
//
// A Document belongs to one goroutine, the render goroutine. Image fetches
// run on their own goroutines and report back through [Document.Post]; the
// results are applied by [Document.Drain].
//
// # Animation
//
// [TweenOpacity], [TweenFill], [TweenTranslate] and [TweenLength] return a
// [TweenGroup] that writes through the setters on each Update. Hosts call
// Update once per tick on the render goroutine.
//
// # Logging
//
// Sapling logs through log/slog and is silent by default. Call [SetLogger]
// or set [Config.Logger] to see warnings about malformed input.
package sapling
