// Package formhttp serves live form sessions over HTTP.
//
// A session is a form.Form built from a named rule set. Clients create one,
// post change events to it and read back the control state as JSON, as an
// htmx fragment or as DataStar server-sent events:
//
//	POST   /forms/signup                       create; body holds initial values
//	POST   /forms/signup/{id}/validate         apply a change event
//	GET    /forms/signup/{id}                  current state
//	GET    /forms/signup/{id}/stream           DataStar SSE of every render
//	DELETE /forms/signup/{id}                  close the session
//
// Events are read from the "datastar" query parameter, a JSON body or form
// parameters following htmx conventions. A validate request waits up to
// Config.SettleTimeout for asynchronous rules; slower outcomes reach clients
// through the stream.
//
// Sessions live in a bounded LRU cache. Evicting or deleting a session closes
// its form and ends its streams. Call Service.Close on shutdown, e.g. via
// httpserver.WithOnShutdown.
//
// # Usage
//
//	svc := formhttp.NewService(sets,
//		formhttp.WithConfig(cfg),
//		formhttp.WithLogger(log),
//		formhttp.WithTranslator(tr),
//	)
//
//	r := chi.NewRouter()
//	r.Use(formhttp.RequestID, i18n.Middleware(i18n.DefaultLangExtractor()))
//	r.Mount("/forms", svc.Handle())
package formhttp
