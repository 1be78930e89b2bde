// Package server exposes a catalog over HTTP.
//
// # Routes
//
//	GET /healthz
//	GET /api/v1/components                          all names, composites, basics
//	GET /api/v1/resolve?q=kitava touched             canonical name for raw input
//	GET /api/v1/components/{name}/recipe?view=tree   nested recipe tree
//	GET /api/v1/components/{name}/recipe?view=list   flattened ingredients with counts
//	GET /api/v1/components/{name}/usage?view=tree    nested usage tree
//	GET /api/v1/components/{name}/usage?view=list    distinct consumers
//	GET /api/v1/components/{name}/recipe.svg         Graphviz diagram
//	GET /api/v1/components/{name}/usage.svg          Graphviz diagram
//
// {name} is raw user input and is resolved like any query, so
// /api/v1/components/kitava%20touched/recipe works. The .svg routes accept
// ?rankdir=TB|BT|LR|RL.
//
// Errors are JSON objects {"code": "...", "message": "..."} with the status
// chosen by [errors.HTTPStatus].
//
// Each request gets an X-Request-ID (a client-supplied one is kept) and a
// request-scoped logger carrying it, available through log.FromContext.
package server
