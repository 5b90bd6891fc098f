// Command zbencode is a reference harness for the zigbee codec: it
// builds a sample light update and prints the encoded frame as hex for
// manual inspection against a radio capture.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/luxbridge/luxd/internal/color"
	"github.com/luxbridge/luxd/internal/zigbee"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	update, err := zigbee.NewUpdate().
		WithOnOff(true).
		WithBrightness(0x20).
		WithGradientColors(zigbee.StyleLinear, color.GamutC, []color.XY{
			color.GamutC.Red,
			color.GamutC.Red,
		})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build update")
	}
	update = update.WithGradientParams(zigbee.GradientParams{Scale: 0x38, Offset: 0x00})

	frame, err := update.Bytes()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode update")
	}

	fmt.Println(hex.EncodeToString(frame))
}
