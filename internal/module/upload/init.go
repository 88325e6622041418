package upload

import (
	"club-management-system/internal/global/logger"
	"log/slog"
)

var log *slog.Logger

type ModuleUpload struct{}

func (u *ModuleUpload) GetName() string {
	return "Upload"
}

func (u *ModuleUpload) Init() {
	log = logger.New("Upload")
}
