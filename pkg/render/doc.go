// Package render provides server-side rendering of route paths to HTML
// fragments.
//
// A Renderer maps route patterns to views. Views are small functions that
// write an HTML fragment for a route, typically backed by html/template:
//
//	r := render.NewRenderer(render.RendererConfig{Logger: logger})
//	r.Handle("/", render.TemplateView(tmpl, "home"))
//	r.Handle("/about", render.TemplateView(tmpl, "about"))
//
//	fragment := r.Render("/about")
//
// Render never fails from the caller's perspective: unmatched paths go to
// the registered not-found view, and a view that errors or panics is
// replaced by a minimal fallback fragment after being logged. Rendering is
// deterministic: the fragment depends only on the route path and the data
// the view derives from it, so server-rendered markup matches what a
// hydrating client would produce.
package render
