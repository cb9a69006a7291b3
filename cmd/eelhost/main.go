// Command eelhost is a minimal example embedder: it opens a Runtime,
// registers a small "counter" class with a constructor and one exported
// module function, then calls it and prints the result. It exists to demonstrate Open -> register classes
// -> Call, analogous to the teacher's cmd/wazero.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chille/eel"
	"github.com/chille/eel/api"
	"github.com/chille/eel/internal/callbridge"
)

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr))
}

func doMain(stdout, stderr *os.File) int {
	ctx := context.Background()

	rt, err := eel.NewRuntime(ctx, eel.NewRuntimeConfig())
	if err != nil {
		fmt.Fprintln(stderr, "eel: open failed:", err)
		return 1
	}
	defer rt.Close(ctx)

	mb := rt.NewModuleBuilder("example")
	_, err = mb.NewClassBuilder("example.counter").
		WithConstructor(func(ctx context.Context, classID int, initv []api.Value) (api.Value, int) {
			return api.IntValue(0), 0
		}).
		Register()
	if err != nil {
		fmt.Fprintln(stderr, "eel: class registration failed:", err)
		return 1
	}

	mb.ExportFunction("add", callbridge.Signature{Required: 2},
		func(ctx context.Context, f callbridge.Frame) int {
			a, _ := f.Arg(0).AsInt()
			b, _ := f.Arg(1).AsInt()
			f.SetResult(api.IntValue(a + b))
			return 0
		})

	mod, err := mb.Instantiate(ctx, nil)
	if err != nil {
		fmt.Fprintln(stderr, "eel: instantiate failed:", err)
		return 1
	}

	fn := mod.ExportedFunction("add")
	results, err := fn.Call(ctx, api.IntValue(2), api.IntValue(3))
	if err != nil {
		fmt.Fprintln(stderr, "eel: call failed:", err)
		return 1
	}

	fmt.Fprintln(stdout, results[0].String())
	return 0
}
