// Package view holds the camera state and the projection pipeline.
//
// A [Camera] is updated by explicit operations (BeginDrag, Drag, EndDrag,
// ZoomBy, Rotate, Reset). [BuildFrame] turns a body set into an ordered draw
// sequence using an orthographic projection of the z=0 plane; items are sorted
// back to front by the depth the pitch rotation produces (painter's algorithm).
//
// Nothing here touches a terminal. The viz package rasterizes the draw
// sequence and the export package writes it as SVG.
package view
