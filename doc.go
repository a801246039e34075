/*
Package inertia builds Inertia-style page responses from lazily evaluated
property trees.

A page is described by a builder function that assigns props on a Scope.
Top-level props are kept as pending values until the reload mode of the
request says they are wanted, so a partial reload that asks for one prop
never pays for the others. Props can be annotated as always sent, optional
(only sent on request) or deferred (advertised on the first load and fetched
by the client afterwards, in named groups).

# Concept

Rendering a page takes three passes:

  - Build: the builder runs and records a tree of values. Nested objects are
    built eagerly, top-level values lazily.
  - Filter: the reload mode decides which top-level props are evaluated.
  - Assemble: the evaluated props and the page metadata become the envelope
    sent to the client, either as JSON or embedded in an HTML shell.

Named partials are reusable builders looked up through a resolver. The
default resolver reads partial documents from a Loam repository; the
memory adapter registers them in code.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/inertia"
		"github.com/aretw0/inertia/pkg/domain"
	)

	func main() {
		eng, err := inertia.New(inertia.WithVersion("v1"))
		if err != nil {
			log.Fatal(err)
		}

		page, err := eng.Render(context.Background(),
			domain.PageMeta{Component: "Users/Index", URL: "/users"},
			domain.PartialReload("Users/Index", "users"),
			func(s inertia.Scope) error {
				s.Set("title", "Users")
				return s.SetFunc("users", loadUsers)
			})
		if err != nil {
			log.Fatal(err)
		}
		log.Println(page.Props.Len()) // 1: only "users" was evaluated
	}

For HTTP servers, see the pkg/adapters/http package, which reads the reload
headers, negotiates JSON or HTML and handles asset version mismatches.
*/
package inertia
