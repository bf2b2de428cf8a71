package member

import (
	"github.com/orgdesk/orgdesk/internal/member/repository"
	"github.com/orgdesk/orgdesk/internal/member/service"
	"go.uber.org/fx"
)

var Module = fx.Module("member.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
