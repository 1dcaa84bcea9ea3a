// Command simulate runs the decision engine over a built-in 11v11 scenario
// and prints the evaluate-decide-execute trace. Useful for eyeballing
// engine behavior without standing up the HTTP service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/okian/tiki/internal/domain/engine"
	"github.com/okian/tiki/internal/domain/execute"
	"github.com/okian/tiki/internal/domain/pitch"
	"github.com/okian/tiki/internal/domain/rules"
	"github.com/okian/tiki/internal/domain/state"
	"github.com/okian/tiki/internal/domain/zones"
)

func main() {
	steps := flag.Int("steps", execute.DefaultMaxSteps, "maximum simulation steps")
	stopOnGoal := flag.Bool("stop-on-goal", true, "end the run at the first goal")
	stopOnLoss := flag.Bool("stop-on-loss", false, "end the run when possession is lost")
	filterSrc := flag.String("filter", "", `option filter expression, e.g. 'ev > 0.02 && kind != "dribble"'`)
	flag.Parse()

	ctx := context.Background()
	snap := buildupScenario()

	grid := zones.New()
	engineOpts := []engine.Option{}
	if *filterSrc != "" {
		filter, err := rules.Compile(*filterSrc)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid filter:", err)
			os.Exit(1)
		}
		engineOpts = append(engineOpts, engine.WithOptionFilter(filter))
	}
	eng := engine.New(grid, engineOpts...)

	loop := execute.NewLoop(eng, execute.NewExecutor(pitch.Standard()),
		execute.WithMaxSteps(*steps),
		execute.WithStopOnGoal(*stopOnGoal),
		execute.WithStopOnPossessionLoss(*stopOnLoss),
	)

	fmt.Println("run", uuid.NewString())
	fmt.Println()
	fmt.Println(eng.Analyze(ctx, snap).Summary())

	trace, err := loop.Run(ctx, snap)
	if err != nil {
		fmt.Fprintln(os.Stderr, "simulation failed:", err)
		os.Exit(1)
	}

	for i, step := range trace {
		opt := step.Option
		fmt.Printf("step %2d  t=%.1fs  %-12s", i+1, step.Before.Timestamp, opt.Kind)
		if opt.TargetID != "" {
			fmt.Printf(" -> %-4s", opt.TargetID)
		} else {
			fmt.Printf(" -> (%.1f, %.1f)", opt.Target.X, opt.Target.Y)
		}
		fmt.Printf("  ev=%+.3f  %s", opt.ExpectedValue, step.Result.Outcome)
		if step.Result.DefenderID != "" {
			fmt.Printf(" by %s", step.Result.DefenderID)
		}
		fmt.Println()
	}
}

// buildupScenario is an 11v11 attacking build-up: the carrier sits just
// behind halfway with runners ahead, and the defending back line leaves a
// 15 meter gap on its left side.
func buildupScenario() state.Snapshot {
	attacker := func(id string, x, y, speed float64) state.Actor {
		a := state.NewActor(id, pitch.Point{X: x, Y: y})
		a.TopSpeed = speed
		return a
	}
	defender := func(id string, x, y, speed float64) state.Actor {
		return attacker(id, x, y, speed)
	}
	keeper := func(id string, x, y float64) state.Actor {
		k := attacker(id, x, y, 6.0)
		k.Goalkeeper = true
		return k
	}

	return state.Snapshot{
		Ball: state.Ball{Position: pitch.Point{X: -5, Y: 0}, CarrierID: "a7"},
		Attackers: []state.Actor{
			keeper("a1", -45, 0),
			attacker("a2", -30, -20, 7.5),
			attacker("a3", -32, -5, 7.5),
			attacker("a4", -32, 5, 7.5),
			attacker("a5", -30, 20, 7.5),
			attacker("a6", -10, -15, 8.0),
			attacker("a7", -5, 0, 8.0),
			attacker("a8", -10, 15, 8.0),
			attacker("a9", 20, -12, 8.5),
			attacker("a10", 25, 5, 8.5),
			attacker("a11", 18, 18, 8.5),
		},
		Defenders: []state.Actor{
			keeper("d1", 45, 0),
			defender("d2", 30, -22, 7.5),
			defender("d3", 32, -8, 7.5),
			defender("d4", 33, 3, 7.5),
			// 15 meters between d4 and d5.
			defender("d5", 30, 18, 7.5),
			defender("d6", 15, -10, 8.0),
			defender("d7", 10, 5, 8.0),
			defender("d8", 12, 15, 8.0),
			defender("d9", -15, -5, 8.5),
			defender("d10", -20, 10, 8.5),
			defender("d11", -25, 0, 8.5),
		},
	}
}
