package engine_test

import (
	"testing"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/engine"
	"github.com/pgnsieve/pgnsieve/internal/testutil"
)

func TestChess960Detection(t *testing.T) {
	testutil.False(t, engine.IsChess960Position(engine.MustBoardFromFEN(engine.InitialFEN)))

	shifted := engine.MustBoardFromFEN("nrk1brqn/pppppppp/8/8/8/8/PPPPPPPP/NRK1BRQN w FBfb - 3 7")
	testutil.True(t, engine.IsChess960Position(shifted))

	game := chess.NewGame()
	testutil.False(t, engine.IsChess960Game(game))
	game.SetTag(chess.TagVariant, "Fischerandom")
	testutil.True(t, engine.IsChess960Game(game))
	game.SetTag(chess.TagVariant, "Chess960")
	testutil.True(t, engine.IsChess960Game(game))
}
