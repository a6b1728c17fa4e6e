// Package surface defines the 2D immediate-mode drawing contract the renderer
// draws against, and the [Manager] that keeps the surface sized to the
// viewport.
//
// A [Context] works in logical units. Hosts with dense displays set a pixel
// scale so that the backing store is viewport × scale device pixels while the
// logical coordinates stay viewport-sized:
//
//	m := surface.NewManager(surface.NewBraille(), redraw)
//	m.Resize(800, 400, 0.2) // 160×80 braille dots
//
// Implementations: [Braille] for terminals, export.SVG for files, and the
// raylib window context in package gui.
package surface
