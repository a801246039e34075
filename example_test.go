package inertia_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aretw0/inertia"
	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/props"
)

// ExampleEngine_Render shows a partial reload: only the requested prop and the
// always-sent ones are evaluated.
func ExampleEngine_Render() {
	engine, err := inertia.New(inertia.WithVersion("v1"))
	if err != nil {
		log.Fatal(err)
	}

	build := func(s inertia.Scope) error {
		s.Set("title", "Users")
		if err := s.Always(func(s props.Scope) error {
			s.Set("auth", "ada")
			return nil
		}); err != nil {
			return err
		}
		return s.SetFunc("users", func(context.Context) (any, error) {
			return []string{"ada", "grace"}, nil
		})
	}

	page, err := engine.Render(context.Background(),
		domain.PageMeta{Component: "Users/Index", URL: "/users"},
		domain.PartialReload("Users/Index", "users"),
		build)
	if err != nil {
		log.Fatal(err)
	}

	out, _ := json.Marshal(page)
	fmt.Println(string(out))
	// Output:
	// {"component":"Users/Index","props":{"auth":"ada","users":["ada","grace"]},"url":"/users","version":"v1","encryptHistory":false,"clearHistory":false}
}
