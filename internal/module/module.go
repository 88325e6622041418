package module

import (
	"club-management-system/internal/module/activity"
	"club-management-system/internal/module/club"
	"club-management-system/internal/module/ping"
	"club-management-system/internal/module/stats"
	"club-management-system/internal/module/upload"
	"club-management-system/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&user.ModuleUser{},
		&ping.ModulePing{},
		&club.ModuleClub{},
		&activity.ModuleActivity{},
		&upload.ModuleUpload{},
		&stats.ModuleStats{},
	})
}
