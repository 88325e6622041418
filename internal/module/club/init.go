package club

import (
	"club-management-system/internal/global/logger"
	"log/slog"
)

var log *slog.Logger

type ModuleClub struct{}

func (m *ModuleClub) GetName() string {
	return "Club"
}

func (m *ModuleClub) Init() {
	log = logger.New("Club")
}

func selfInit() {
	m := &ModuleClub{}
	m.Init()
}
