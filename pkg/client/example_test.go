package client_test

import (
	"context"
	"fmt"

	"github.com/alanderos91/BindrTest/pkg/client"
)

func ExampleModelBuilder() {
	cfg := client.NewModel("predator-prey").
		Rule("Rabbit + 0 --> Rabbit + Rabbit, birth").
		Rule("Wolf + Rabbit --> Wolf + Wolf, predation").
		Rule("Wolf --> 0, death").
		Param("birth", 0.3).
		Param("predation", 0.2).
		Param("death", 0.1).
		Topology("nearest-neighbor", 2).
		Bounds(0, 0, 0, 49, 49, 0).
		Site(10, 10, 0, "Rabbit").
		Site(40, 40, 0, "Wolf").
		FinalTime(100.0).
		SampleCount(200).
		Seed(42).
		Build()

	fmt.Printf("Model: %s\n", cfg.Name)
	fmt.Printf("Rules: %d\n", len(cfg.Rules))
	fmt.Printf("Params: %d\n", len(cfg.Params))

	// Example: register and run against a server (commented out for test)
	// ctx := context.Background()
	// c := client.New("http://localhost:8080")
	// if err := c.RegisterModel(ctx, cfg); err != nil {
	// 	log.Fatal(err)
	// }
	// runID, err := c.StartRun(ctx, client.StartRunRequest{Model: cfg.Name})

	// Output:
	// Model: predator-prey
	// Rules: 3
	// Params: 3
}

func ExampleClient_WaitForRun() {
	ctx := context.Background()
	c := client.New("http://localhost:8080")

	// This would start a run and block until it finishes.
	// Uncomment to actually run against a live server:
	// runID, err := c.StartRun(ctx, client.StartRunRequest{Model: "predator-prey"})
	// if err != nil {
	// 	log.Fatal(err)
	// }
	// info, err := c.WaitForRun(ctx, runID, time.Second)
	// fmt.Println(info.Status)

	_ = ctx
	_ = c
}
