// Package http provides the HTTP surface of the hero service.
//
// Routes are served by a chi router:
//
//	GET     /heroes        list every hero (pretty-printed JSON array)
//	GET     /heroes/{id}   fetch one hero
//	POST    /heroes        create a hero; ?id= overrides the body id
//	PUT     /heroes        replace the hero with the body's id
//	DELETE  /heroes/{id}   delete a hero
//	OPTIONS /heroes[/{id}] CORS preflight
//	POST    /heroes/data   create many heroes from a JSON array
//	GET     /healthz       liveness probe
//
// # Status Modes
//
// StatusCompat keeps the codes existing frontends were written against:
// read and parse failures answer 418, create failures answer 200 with the
// error text as a plain-text body, and deleting an absent hero answers 404
// with {"deleted": false, "id": N}.
//
// StatusStrict answers failures with StatusFor(err): 400 for malformed
// input, 404 for a missing hero, 409 for a duplicate name or taken id, 413
// for an oversized body and 503 when the blob store is unreachable.
//
// # CORS
//
// Every response carries Access-Control-Allow-Origin: * and
// Access-Control-Allow-Methods: *. DELETE and OPTIONS responses also allow
// the Content-Type header. When CORSConfig.Enabled is set, go-chi/cors
// handles negotiation on top of these headers.
//
// # Usage
//
//	handler := http.NewHandler(&http.HandlerConfig{StatusMode: http.StatusCompat}, service)
//	server := &nethttp.Server{Addr: ":7071", Handler: handler.Router()}
package http
