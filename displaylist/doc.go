// Package displaylist records drawing operations against shared,
// registry-tracked resources.
//
// A display list is the consumer side of the resource lifecycle: ops
// reference images, matrices, paints and shaders without copying them,
// and every reference is retained through a rescache.Registry for as
// long as the list is alive. Recording does not draw anything; a list
// is a replayable description that a renderer walks op by op.
//
// # Resource Lifetime
//
// Each recorded use takes one reference: an image drawn twice is
// retained twice. A paint with a gradient shader retains the shader
// alongside the paint. Finish moves all references into the returned
// List; List.Release drops them exactly once, at which point resources
// with a pending recycle or destroy request are torn down by the
// registry.
//
// # Usage
//
//	reg := rescache.NewRegistry()
//
//	rec := displaylist.NewRecorder(reg)
//	rec.SetMatrix(m)
//	rec.DrawImage(img, nil)
//	rec.DrawRect(0, 0, 100, 100, paint)
//	list := rec.Finish()
//
//	for _, op := range list.Ops() {
//		// replay into a renderer
//	}
//	list.Release()
//
// # Thread Safety
//
// Recorder and List share the Registry's confinement contract: record,
// replay and release on one goroutine, or synchronize externally.
package displaylist
