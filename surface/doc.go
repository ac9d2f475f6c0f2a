// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides per-fragment render surfaces and the render tree
// they are composited from.
//
// A Record owns the backing image of one text fragment together with the
// geometry it is drawn at. Records do not depend on a windowing system:
// "layer" behavior is reduced to a frame, a dirty flag and a Painter that
// draws the fragment on demand.
//
// # Lifecycle
//
//   - NewRecord captures the device scale and starts dirty.
//   - UpdateGeometry follows the fragment when it moves or is resized; a
//     change of the rendering bounds marks the record dirty again.
//   - Display rasterizes a dirty record through a Painter.
//   - Tree.Attach and Tree.Detach decide what is composited.
//
// # Compositing
//
// Tree.Composite draws attached surfaces through an affine matrix that maps
// document coordinates to destination pixels, so a host can present the
// document rotated (vertical text) or scaled without re-rasterizing:
//
//	tree.Composite(dst, geom.Scale(2, 2).Multiply(docToScreen))
package surface
