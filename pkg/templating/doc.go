/*
Package templating provides a filesystem-backed Go template engine for serving
HTML pages. Templates are loaded recursively from a directory and registered
under their slash-separated relative path, so "about/index.html" on disk is
addressable as "about/index.html" — the identifier shape the autopage
middleware resolves request paths into.

The engine supports hot-reloading via Refresh, enabling template updates
post-deployment without a restart, and ships a small library of helper
functions usable from any template. All Manager methods are concurrent-safe.
*/
package templating
