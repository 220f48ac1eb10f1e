package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/opcode-profile/internal/profile"
	"github.com/shandysiswandi/opcode-profile/internal/pybot"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.profile.enabled") {
		if err := profile.New(profile.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
		}); err != nil {
			slog.Error("failed to init module profile", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.pybot.enabled") {
		if err := pybot.New(pybot.Dependency{
			Ctx:        a.ctx,
			Redis:      a.cacheConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UUID:       a.uuid,
			Goroutine:  a.goroutine,
		}); err != nil {
			slog.Error("failed to init module pybot", "error", err)
			os.Exit(1)
		}
	}
}
