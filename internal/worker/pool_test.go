package worker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/processing"
	"github.com/pgnsieve/pgnsieve/internal/worker"
)

func TestPoolProcessesEveryJob(t *testing.T) {
	eval := func(game *chess.Game) (*processing.Result, error) {
		return &processing.Result{Game: game}, nil
	}
	p := worker.NewPool(eval, worker.WithWorkers(4), worker.WithBuffer(8))
	p.Start(context.Background())

	const jobs = 100
	go func() {
		for i := 0; i < jobs; i++ {
			g := chess.NewGame()
			g.StartLine = uint(i)
			p.Submit(worker.Job{Seq: i, Game: g})
		}
		p.Close()
	}()

	seen := make(map[int]bool)
	for out := range p.Outcomes() {
		if out.Err != nil {
			t.Fatalf("job %d failed: %v", out.Seq, out.Err)
		}
		if out.Result == nil || out.Result.Game.StartLine != uint(out.Seq) {
			t.Fatalf("job %d paired with the wrong game", out.Seq)
		}
		if seen[out.Seq] {
			t.Fatalf("job %d delivered twice", out.Seq)
		}
		seen[out.Seq] = true
	}
	if len(seen) != jobs {
		t.Errorf("got %d outcomes, want %d", len(seen), jobs)
	}
}

func TestPoolForwardsErrors(t *testing.T) {
	boom := errors.New("broken game")
	eval := func(game *chess.Game) (*processing.Result, error) {
		return nil, boom
	}
	p := worker.NewPool(eval, worker.WithWorkers(2))
	p.Start(context.Background())

	go func() {
		p.Submit(worker.Job{Seq: 0, Game: chess.NewGame()})
		p.Close()
	}()

	got := 0
	for out := range p.Outcomes() {
		if !errors.Is(out.Err, boom) {
			t.Errorf("outcome error = %v, want %v", out.Err, boom)
		}
		got++
	}
	if got != 1 {
		t.Errorf("got %d outcomes, want 1", got)
	}
}

func TestPoolDefaults(t *testing.T) {
	p := worker.NewPool(func(*chess.Game) (*processing.Result, error) { return nil, nil })
	if p.Workers() < 1 {
		t.Errorf("Workers() = %d", p.Workers())
	}
}
