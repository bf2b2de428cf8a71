package organization

import (
	"github.com/orgdesk/orgdesk/internal/organization/repository"
	"github.com/orgdesk/orgdesk/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
