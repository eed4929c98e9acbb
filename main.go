package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"

	"gzt/internal/cli"
)

func main() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var c cli.CLI
	ctx := kong.Parse(&c,
		kong.Name("gzt"),
		kong.Description("Streaming compression and archive-processing library."),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		log.Fatal().Stack().Err(err).Msg("gzt failed")
	}
}
