// Package router adapts go-chi/chi to the request core. Routes are chi
// patterns bound to handlers that receive the *response.Exchange of the
// current request:
//
//	rt := router.New(router.WithAdmin(cfg))
//	rt.Get("/users/{id}", func(x *response.Exchange) error {
//		return x.Response([]byte(router.Param(x, "id")), "text/plain")
//	})
//
// The dispatcher calls Execute with the normalized script path. Execute
// reports whether a route matched and returns the handler's error so the
// dispatcher can classify it.
package router
