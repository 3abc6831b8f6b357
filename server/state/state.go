package state

import (
	"github.com/rs/zerolog"

	"github.com/indieinfra/mediaprep/config"
	"github.com/indieinfra/mediaprep/stage"
)

type MediaprepState struct {
	Cfg    *config.Config
	Stager *stage.Stager
	Logger zerolog.Logger
}
