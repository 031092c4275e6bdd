/*
Package autopage provides an HTTP middleware that serves server-rendered pages
without a route per page. For every GET request, the middleware derives template
identifiers from the URL path and checks them against the registered template
set; on a match it builds a render context through a caller-supplied builder and
returns the rendered page directly, and otherwise the request falls through to
the wrapped handler untouched.

A path like "/about" is tried as "about.html" and then "about/index.html"
(under the configured prefix), mirroring common static-site layouts. The
template engine is abstracted behind the small Engine interface, which
*templating.Manager satisfies.

Typical wiring:

	tm, _ := templating.NewManager(logger, "./data/templates")
	mw, err := autopage.New(tm, "pages", baseContext)
	if err != nil {
		// nil engine or builder: a wiring bug, not a runtime condition
	}
	http.ListenAndServe(addr, mw.Wrap(mux))

where baseContext is any function that assembles per-request template data,
for example from a shared database handle.
*/
package autopage
