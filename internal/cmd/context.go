package cmd

import (
	"io"

	"github.com/mhartig/sapjobs/internal/config"
	"github.com/mhartig/sapjobs/internal/ui"
	"github.com/rs/zerolog"
)

// Context carries the shared dependencies into kong's command Run methods.
type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
}
